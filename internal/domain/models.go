package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields. IDs and timestamps are assigned client-side;
// the Postgres column defaults live in the migrations only. The sqlite test
// database has no gen_random_uuid, and its CURRENT_TIMESTAMP is second
// precision, too coarse for created_at ordering.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID client-side
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents an employee identity. Authentication happens upstream; this
// row only anchors profiles and log attribution.
type User struct {
	BaseModel
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string `gorm:"type:varchar(200);not null;column:display_name"`
	IsActive    bool   `gorm:"not null;default:true;column:is_active"`
}

// Lead represents a prospective customer contact record
type Lead struct {
	BaseModel
	Name         string     `gorm:"type:varchar(255);not null;index"`
	PhoneNumber  string     `gorm:"type:varchar(32);not null;index;column:phone_number"` // E.164, e.g. +15551234567
	Email        string     `gorm:"type:varchar(255)"`
	Notes        string     `gorm:"type:text"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;column:assigned_to_id;index"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID"`
}

// EmployeeProfile holds the PSTN phone number used as the call destination
// when the employee has no active SIP account. One row per user.
type EmployeeProfile struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:user_id"`
	User        *User     `gorm:"foreignKey:UserID"`
	PhoneNumber string    `gorm:"type:varchar(32);not null;column:phone_number"` // E.164
}

// SipAccount holds a softphone destination. When active it takes priority
// over the EmployeeProfile phone number. One row per user.
type SipAccount struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:user_id"`
	User        *User     `gorm:"foreignKey:UserID"`
	SipUsername string    `gorm:"type:varchar(64);not null;column:sip_username"`
	SipDomain   string    `gorm:"type:varchar(255);not null;column:sip_domain"`
	DisplayName string    `gorm:"type:varchar(200);column:display_name"`
	IsActive    bool      `gorm:"not null;default:false;column:is_active"`
}

// URI returns the SIP destination in sip:user@domain form.
func (s *SipAccount) URI() string {
	return "sip:" + s.SipUsername + "@" + s.SipDomain
}

// Direction of a call or message relative to this system
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Statuses assigned locally. The status columns stay free-text because the
// telephony provider owns the vocabulary.
const (
	StatusQueued   = "queued"
	StatusFailed   = "failed"
	StatusReceived = "received"
)

// TerminalCallStatuses are provider statuses after which no further
// progression is expected; reaching one sets CallLog.EndedAt.
var TerminalCallStatuses = map[string]bool{
	"completed": true,
	"busy":      true,
	"failed":    true,
	"no-answer": true,
	"canceled":  true,
}

// CallLog records one call attempt against a lead. Created queued (or failed
// when origination fails) and mutated only by provider status callbacks.
type CallLog struct {
	BaseModel
	LeadID          uuid.UUID  `gorm:"type:uuid;not null;index;column:lead_id"`
	Lead            *Lead      `gorm:"foreignKey:LeadID"`
	EmployeeID      *uuid.UUID `gorm:"type:uuid;column:employee_id;index"`
	Employee        *User      `gorm:"foreignKey:EmployeeID"`
	ProviderCallID  string     `gorm:"type:varchar(64);index;column:provider_call_id"`
	Direction       Direction  `gorm:"type:varchar(16);not null;default:'outbound'"`
	Status          string     `gorm:"type:varchar(64)"`
	DurationSeconds int        `gorm:"not null;default:0;column:duration_seconds"` // provider-reported only
	RecordingURL    string     `gorm:"type:varchar(500);column:recording_url"`
	Notes           string     `gorm:"type:text"`
	UsedSip         bool       `gorm:"not null;default:false;column:used_sip"`
	StartedAt       time.Time  `gorm:"not null;column:started_at"`
	EndedAt         *time.Time `gorm:"column:ended_at"`
}

// MessageLog records one SMS in either direction. Rows are immutable after
// creation; an outbound failure is its own row with status failed.
type MessageLog struct {
	BaseModel
	LeadID            *uuid.UUID     `gorm:"type:uuid;column:lead_id;index"` // nil for inbound from unknown senders
	Lead              *Lead          `gorm:"foreignKey:LeadID"`
	EmployeeID        *uuid.UUID     `gorm:"type:uuid;column:employee_id"`
	Employee          *User          `gorm:"foreignKey:EmployeeID"`
	ProviderMessageID string         `gorm:"type:varchar(64);index;column:provider_message_id"`
	Direction         Direction      `gorm:"type:varchar(16);not null;default:'outbound'"`
	Body              string         `gorm:"type:text;not null"`
	Status            string         `gorm:"type:varchar(64)"`
	MediaURLs         pq.StringArray `gorm:"type:text[];column:media_urls"`
}

// WebhookEventKind classifies a recorded provider callback
type WebhookEventKind string

const (
	WebhookEventCallStatus     WebhookEventKind = "call_status"
	WebhookEventInboundMessage WebhookEventKind = "inbound_message"
)

// WebhookEvent is an append-only record of every provider callback received,
// kept for troubleshooting delivery issues and pruned by the retention job.
type WebhookEvent struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key"`
	Kind       WebhookEventKind `gorm:"type:varchar(32);not null;index"`
	ProviderID string           `gorm:"type:varchar(64);index;column:provider_id"`
	Payload    string           `gorm:"type:text"` // raw form payload as JSON
	ReceivedAt time.Time        `gorm:"not null;column:received_at;index"`
}

func (e *WebhookEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}
	return nil
}
