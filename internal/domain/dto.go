package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type LeadDTO struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	PhoneNumber    string     `json:"phoneNumber"`
	Email          string     `json:"email,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AssignedToID   *uuid.UUID `json:"assignedToId,omitempty"`
	AssignedToName string     `json:"assignedToName,omitempty"`
	CreatedAt      string     `json:"createdAt"` // ISO 8601
	UpdatedAt      string     `json:"updatedAt"` // ISO 8601
}

// LeadWithHistoryDTO includes the lead's recent call and message history
type LeadWithHistoryDTO struct {
	LeadDTO
	CallLogs    []CallLogDTO    `json:"callLogs,omitempty"`
	MessageLogs []MessageLogDTO `json:"messageLogs,omitempty"`
}

type CallLogDTO struct {
	ID              uuid.UUID  `json:"id"`
	LeadID          uuid.UUID  `json:"leadId"`
	EmployeeID      *uuid.UUID `json:"employeeId,omitempty"`
	ProviderCallID  string     `json:"providerCallId,omitempty"`
	Direction       Direction  `json:"direction"`
	Status          string     `json:"status"`
	DurationSeconds int        `json:"durationSeconds"`
	RecordingURL    string     `json:"recordingUrl,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	UsedSip         bool       `json:"usedSip"`
	StartedAt       string     `json:"startedAt"`
	EndedAt         string     `json:"endedAt,omitempty"`
}

type MessageLogDTO struct {
	ID                uuid.UUID  `json:"id"`
	LeadID            *uuid.UUID `json:"leadId,omitempty"`
	EmployeeID        *uuid.UUID `json:"employeeId,omitempty"`
	ProviderMessageID string     `json:"providerMessageId,omitempty"`
	Direction         Direction  `json:"direction"`
	Body              string     `json:"body"`
	Status            string     `json:"status"`
	MediaURLs         []string   `json:"mediaUrls,omitempty"`
	CreatedAt         string     `json:"createdAt"`
}

type EmployeeProfileDTO struct {
	UserID      uuid.UUID `json:"userId"`
	PhoneNumber string    `json:"phoneNumber"`
	UpdatedAt   string    `json:"updatedAt"`
}

type SipAccountDTO struct {
	UserID      uuid.UUID `json:"userId"`
	SipUsername string    `json:"sipUsername"`
	SipDomain   string    `json:"sipDomain"`
	DisplayName string    `json:"displayName,omitempty"`
	IsActive    bool      `json:"isActive"`
	URI         string    `json:"uri"`
	UpdatedAt   string    `json:"updatedAt"`
}

// Request DTOs

type CreateLeadRequest struct {
	Name         string     `json:"name" validate:"required,max=255"`
	PhoneNumber  string     `json:"phoneNumber" validate:"required,e164"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email"`
	Notes        string     `json:"notes,omitempty"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

type UpdateLeadRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	PhoneNumber  *string    `json:"phoneNumber,omitempty" validate:"omitempty,e164"`
	Email        *string    `json:"email,omitempty" validate:"omitempty,email"`
	Notes        *string    `json:"notes,omitempty"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

type UpsertEmployeeProfileRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

type UpsertSipAccountRequest struct {
	SipUsername string `json:"sipUsername" validate:"required,max=64"`
	SipDomain   string `json:"sipDomain" validate:"required,hostname"`
	DisplayName string `json:"displayName,omitempty" validate:"omitempty,max=200"`
	IsActive    bool   `json:"isActive"`
}

// InitiateCallResponse is returned from the click-to-call endpoint
type InitiateCallResponse struct {
	Ok      bool       `json:"ok"`
	CallLog CallLogDTO `json:"callLog"`
}

// ArchiveRecordingResponse reports where a recording copy was stored
type ArchiveRecordingResponse struct {
	CallLogID   uuid.UUID `json:"callLogId"`
	StoragePath string    `json:"storagePath"`
	Size        int64     `json:"size"`
}

// LegacyImportResultDTO summarizes a legacy CRM lead import run
type LegacyImportResultDTO struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// PaginatedResponse wraps list responses
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
