package storage

import (
	"github.com/psimao/ponto/internal/domain"
)

// sessionModelToDomain converts a SessionModel (GORM) to domain.TrackingSession
func sessionModelToDomain(m SessionModel) domain.TrackingSession {
	session := domain.TrackingSession{
		ID:        m.ID,
		UserID:    m.UserID,
		State:     domain.State(m.State),
		StartedAt: m.StartedAt.UTC(),
		Note:      m.Note,
	}
	if m.EndedAt != nil {
		ended := m.EndedAt.UTC()
		session.EndedAt = &ended
	}
	if m.CommuteDirection != nil {
		session.CommuteDirection = domain.CommuteDirection(*m.CommuteDirection)
	}
	return session
}

// domainToSessionModel converts a domain.TrackingSession to SessionModel (GORM)
func domainToSessionModel(s domain.TrackingSession) SessionModel {
	model := SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		State:     string(s.State),
		StartedAt: s.StartedAt.UTC(),
		Note:      s.Note,
	}
	if s.EndedAt != nil {
		ended := s.EndedAt.UTC()
		model.EndedAt = &ended
	}
	if s.CommuteDirection != "" {
		direction := string(s.CommuteDirection)
		model.CommuteDirection = &direction
	}
	return model
}

// userModelToDomain converts a UserModel (GORM) to domain.User
func userModelToDomain(m UserModel) domain.User {
	return domain.User{
		ID:                             m.ID,
		ExternalID:                     m.ExternalID,
		DisplayName:                    m.DisplayName,
		UTCOffsetMinutes:               m.UTCOffsetMinutes,
		MaxWorkHours:                   m.MaxWorkHours,
		MaxCommuteHours:                m.MaxCommuteHours,
		MaxLunchHours:                  m.MaxLunchHours,
		LunchReminderHour:              m.LunchReminderHour,
		LunchReminderMinute:            m.LunchReminderMinute,
		TargetWorkHours:                m.TargetWorkHours,
		ForgotShutdownThresholdPercent: m.ForgotShutdownThresholdPercent,
	}
}
