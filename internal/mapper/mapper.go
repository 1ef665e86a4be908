package mapper

import (
	"github.com/leadline-crm/leadline-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	dto := domain.LeadDTO{
		ID:           lead.ID,
		Name:         lead.Name,
		PhoneNumber:  lead.PhoneNumber,
		Email:        lead.Email,
		Notes:        lead.Notes,
		AssignedToID: lead.AssignedToID,
		CreatedAt:    lead.CreatedAt.Format(timeFormat),
		UpdatedAt:    lead.UpdatedAt.Format(timeFormat),
	}

	if lead.AssignedTo != nil {
		dto.AssignedToName = lead.AssignedTo.DisplayName
	}

	return dto
}

// ToLeadWithHistoryDTO converts a Lead plus its logs to LeadWithHistoryDTO
func ToLeadWithHistoryDTO(lead *domain.Lead, calls []domain.CallLog, messages []domain.MessageLog) domain.LeadWithHistoryDTO {
	callDTOs := make([]domain.CallLogDTO, len(calls))
	for i := range calls {
		callDTOs[i] = ToCallLogDTO(&calls[i])
	}

	messageDTOs := make([]domain.MessageLogDTO, len(messages))
	for i := range messages {
		messageDTOs[i] = ToMessageLogDTO(&messages[i])
	}

	return domain.LeadWithHistoryDTO{
		LeadDTO:     ToLeadDTO(lead),
		CallLogs:    callDTOs,
		MessageLogs: messageDTOs,
	}
}

// ToCallLogDTO converts CallLog to CallLogDTO
func ToCallLogDTO(call *domain.CallLog) domain.CallLogDTO {
	dto := domain.CallLogDTO{
		ID:              call.ID,
		LeadID:          call.LeadID,
		EmployeeID:      call.EmployeeID,
		ProviderCallID:  call.ProviderCallID,
		Direction:       call.Direction,
		Status:          call.Status,
		DurationSeconds: call.DurationSeconds,
		RecordingURL:    call.RecordingURL,
		Notes:           call.Notes,
		UsedSip:         call.UsedSip,
		StartedAt:       call.StartedAt.Format(timeFormat),
	}

	if call.EndedAt != nil {
		dto.EndedAt = call.EndedAt.Format(timeFormat)
	}

	return dto
}

// ToMessageLogDTO converts MessageLog to MessageLogDTO
func ToMessageLogDTO(msg *domain.MessageLog) domain.MessageLogDTO {
	return domain.MessageLogDTO{
		ID:                msg.ID,
		LeadID:            msg.LeadID,
		EmployeeID:        msg.EmployeeID,
		ProviderMessageID: msg.ProviderMessageID,
		Direction:         msg.Direction,
		Body:              msg.Body,
		Status:            msg.Status,
		MediaURLs:         msg.MediaURLs,
		CreatedAt:         msg.CreatedAt.Format(timeFormat),
	}
}

// ToEmployeeProfileDTO converts EmployeeProfile to EmployeeProfileDTO
func ToEmployeeProfileDTO(profile *domain.EmployeeProfile) domain.EmployeeProfileDTO {
	return domain.EmployeeProfileDTO{
		UserID:      profile.UserID,
		PhoneNumber: profile.PhoneNumber,
		UpdatedAt:   profile.UpdatedAt.Format(timeFormat),
	}
}

// ToSipAccountDTO converts SipAccount to SipAccountDTO
func ToSipAccountDTO(account *domain.SipAccount) domain.SipAccountDTO {
	return domain.SipAccountDTO{
		UserID:      account.UserID,
		SipUsername: account.SipUsername,
		SipDomain:   account.SipDomain,
		DisplayName: account.DisplayName,
		IsActive:    account.IsActive,
		URI:         account.URI(),
		UpdatedAt:   account.UpdatedAt.Format(timeFormat),
	}
}
