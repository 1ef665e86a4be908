// Package legacy provides read-only connectivity to the legacy CRM running on
// MS SQL Server. It exists for one purpose: a one-shot import of leads into
// this system. Nothing here ever writes to the legacy database.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/leadline-crm/leadline-api/internal/config"
	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"
)

const defaultHealthCheckTimeout = 5 * time.Second

// Client provides read-only access to the legacy CRM database
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// LegacyLead is one candidate row from the legacy contacts table
type LegacyLead struct {
	Name        string
	PhoneNumber string
	Email       string
	Notes       string
}

// NewClient creates a legacy CRM client. Returns nil when the import is
// disabled or not fully configured; callers must treat a nil client as
// "feature off".
func NewClient(cfg *config.LegacyConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("legacy CRM connection disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("legacy CRM enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy CRM connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping legacy CRM: %w", err)
	}

	logger.Info("legacy CRM connection established")

	return &Client{
		db:           db,
		logger:       logger,
		queryTimeout: cfg.QueryTimeoutDuration(),
	}, nil
}

// buildConnectionString constructs a SQL Server connection string.
// URL format expected: host:port/database or host:port
func buildConnectionString(cfg *config.LegacyConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the legacy CRM connection
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close legacy CRM connection: %w", err)
	}
	return nil
}

// IsEnabled returns true if the client is initialized and ready for queries
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// FetchLeads reads candidate leads from the legacy contacts table. Rows
// without a phone number are useless here and filtered at the source.
func (c *Client) FetchLeads(ctx context.Context, limit int) ([]LegacyLead, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("legacy CRM client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	query := `SELECT TOP (@p1) full_name, phone_e164, COALESCE(email, ''), COALESCE(notes, '')
		FROM dbo.crm_contacts
		WHERE phone_e164 IS NOT NULL AND phone_e164 <> ''
		ORDER BY created_at ASC`

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		c.logger.Error("legacy CRM query failed", zap.Error(err))
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var leads []LegacyLead
	for rows.Next() {
		var lead LegacyLead
		if err := rows.Scan(&lead.Name, &lead.PhoneNumber, &lead.Email, &lead.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	c.logger.Debug("legacy CRM leads fetched",
		zap.Int("rows_returned", len(leads)),
		zap.Duration("duration", time.Since(start)),
	)

	return leads, nil
}
