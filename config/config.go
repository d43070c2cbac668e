/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"DEBUG"`

	// Server configurations
	Port string `envconfig:"PORT" default:"9443"`

	// Database configurations
	Database     Database `envconfig:"DATABASE"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./internal/database/schema.sql"`

	// Feed catalog bootstrap (used to seed the rss_feeds table on startup)
	FeedDefinitionsPath string `envconfig:"FEED_DEFINITIONS_PATH" default:"./resources/default-feeds"`

	// JWT Authentication configurations
	JWT JWT `envconfig:"JWT"`

	// Delivery platform OAuth applications
	OAuth OAuth `envconfig:"OAUTH"`

	// Plan limits applied to new organizations
	Plans Plans `envconfig:"PLANS"`

	// WebSocket configurations
	WebSocket WebSocket `envconfig:"WEBSOCKET"`

	// TLS configurations
	TLS TLS `envconfig:"TLS"`
}

// TLS holds TLS certificate configuration
type TLS struct {
	CertDir string `envconfig:"CERT_DIR" default:"./data/certs"`
}

// JWT holds JWT-specific configuration
type JWT struct {
	SecretKey      string   `envconfig:"SECRET_KEY" default:"your-secret-key-change-in-production"`
	Issuer         string   `envconfig:"ISSUER" default:"osiri"`
	SkipPaths      []string `envconfig:"SKIP_PATHS" default:"/health"`
	SkipValidation bool     `envconfig:"SKIP_VALIDATION" default:"true"` // Skip signature validation for development
}

// OAuth holds the OAuth application settings for the chat delivery platforms.
type OAuth struct {
	Slack   OAuthApp `envconfig:"SLACK"`
	Discord OAuthApp `envconfig:"DISCORD"`

	// ExchangeTimeout bounds a single token-exchange request, in seconds.
	ExchangeTimeout int `envconfig:"EXCHANGE_TIMEOUT" default:"15"`
	// ExchangeRetries is the number of retries on 5xx/network failures.
	ExchangeRetries int `envconfig:"EXCHANGE_RETRIES" default:"2"`
}

// OAuthApp holds a single OAuth application registration.
type OAuthApp struct {
	ClientID     string `envconfig:"CLIENT_ID" default:""`
	ClientSecret string `envconfig:"CLIENT_SECRET" default:""`
	RedirectURI  string `envconfig:"REDIRECT_URI" default:""`
}

// Plans holds the plan limits applied to new organizations.
//
// The free-tier feed selection cap and the starter subscription limits are read
// from here by both the onboarding draft rules and the provisioning insert, so
// the two cannot drift apart.
type Plans struct {
	// DefaultFeedID is always part of a selection and cannot be removed.
	DefaultFeedID string `envconfig:"DEFAULT_FEED_ID" default:"osiri-daily"`

	// FreeFeedCap is the maximum number of selected feeds on the free tier,
	// including the default feed.
	FreeFeedCap int `envconfig:"FREE_FEED_CAP" default:"3"`

	// Starter subscription limits seeded for every new organization.
	StarterChannels            int `envconfig:"STARTER_CHANNELS" default:"1"`
	StarterFeedsPerChannel     int `envconfig:"STARTER_FEEDS_PER_CHANNEL" default:"5"`
	StarterNotificationsPerDay int `envconfig:"STARTER_NOTIFICATIONS_PER_DAY" default:"100"`
	StarterMinIntervalMinutes  int `envconfig:"STARTER_MIN_INTERVAL_MINUTES" default:"60"`

	// TrialDays is the length of the trial started at provisioning time.
	TrialDays int `envconfig:"TRIAL_DAYS" default:"14"`
}

// WebSocket holds WebSocket-specific configuration
type WebSocket struct {
	MaxConnections    int `envconfig:"WS_MAX_CONNECTIONS" default:"1000"`
	ConnectionTimeout int `envconfig:"WS_CONNECTION_TIMEOUT" default:"30"` // seconds
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// Path is the file path for SQLite databases.
	// Use DATABASE_DB_PATH to override; keeping it distinct from the OS PATH variable.
	Path            string `envconfig:"DB_PATH" default:"./data/osiri.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"NAME" default:"osiri"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds

	// ExecuteSchemaDDL controls whether to run the schema DDL (CREATE TABLE, etc.) on startup.
	// Set to false when the DB user lacks DDL privileges (e.g. deployed Postgres with restricted role).
	// Env: DATABASE_EXECUTE_SCHEMA_DDL (default: true)
	ExecuteSchemaDDL bool `envconfig:"EXECUTE_SCHEMA_DDL" default:"true"`
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Server struct.
// It uses sync.Once to ensure that the initialization logic is executed only once,
// making it safe for concurrent use. If there is an error during the initialization,
// the function will panic.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance = &Server{}
		err = envconfig.Process("", settingInstance)
		if err == nil {
			err = validatePlans(&settingInstance.Plans)
		}
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// validatePlans validates the plan limit configuration.
//
// The selection cap must leave room for the mandatory default feed, and the
// starter limits must stay consistent with it.
func validatePlans(cfg *Plans) error {
	if cfg.DefaultFeedID == "" {
		return fmt.Errorf("PLANS_DEFAULT_FEED_ID is not configured")
	}

	if cfg.FreeFeedCap < 1 {
		return fmt.Errorf("PLANS_FREE_FEED_CAP must be at least 1 (it includes the default feed)")
	}

	if cfg.StarterChannels < 1 {
		return fmt.Errorf("PLANS_STARTER_CHANNELS must be at least 1")
	}

	if cfg.StarterFeedsPerChannel < cfg.FreeFeedCap {
		return fmt.Errorf("PLANS_STARTER_FEEDS_PER_CHANNEL (%d) must not be below PLANS_FREE_FEED_CAP (%d)",
			cfg.StarterFeedsPerChannel, cfg.FreeFeedCap)
	}

	if cfg.StarterNotificationsPerDay < 1 {
		return fmt.Errorf("PLANS_STARTER_NOTIFICATIONS_PER_DAY must be at least 1")
	}

	if cfg.StarterMinIntervalMinutes < 0 {
		return fmt.Errorf("PLANS_STARTER_MIN_INTERVAL_MINUTES must not be negative")
	}

	return nil
}
