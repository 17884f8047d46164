package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SwapStatus представляет статус предложения обмена
type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "pending"
	SwapStatusAccepted SwapStatus = "accepted"
	SwapStatusRejected SwapStatus = "rejected"
	SwapStatusClosed   SwapStatus = "closed"

	// Устаревшее значение из ранних версий схемы, распознаётся при чтении
	SwapStatusCompleted SwapStatus = "completed"
)

var (
	ErrSelfSwap          = errors.New("нельзя предложить обмен самому себе")
	ErrInvalidTransition = errors.New("предложение обмена уже не находится в ожидании")
	ErrNotRecipient      = errors.New("только получатель предложения может его принять или отклонить")
	ErrNotParticipant    = errors.New("пользователь не является участником обмена")
	ErrNotAccepted       = errors.New("обмен ещё не принят")
	ErrInvalidRating     = errors.New("оценка должна быть от 1 до 5")
)

// SwapRequest представляет предложение обмена навыками между двумя пользователями
type SwapRequest struct {
	ID           uuid.UUID  `json:"id"`
	FromUserID   string     `json:"from_user_id"`
	ToUserID     string     `json:"to_user_id"`
	FromUserName string     `json:"from_user_name"`
	ToUserName   string     `json:"to_user_name"`
	SkillOffered string     `json:"skill_offered"`
	SkillWanted  string     `json:"skill_wanted"`
	Message      string     `json:"message,omitempty"`
	Status       SwapStatus `json:"status"`
	ClosedCount  int        `json:"closed_count"`
	ClosedBy     []string   `json:"-"` // кто из участников уже подтвердил закрытие
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Feedback представляет оценку, оставленную одним участником обмена другому
type Feedback struct {
	ID            uuid.UUID `json:"id"`
	SwapRequestID uuid.UUID `json:"swap_request_id"`
	FromUserID    string    `json:"from_user_id"`
	ToUserID      string    `json:"to_user_id"`
	Rating        int       `json:"rating"` // 1-5
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatMessage представляет сообщение в переписке по обмену
type ChatMessage struct {
	ID            uuid.UUID `json:"id"`
	SwapRequestID uuid.UUID `json:"swap_request_id"`
	FromUserID    string    `json:"from_user_id"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSwapRequest создает предложение обмена в статусе pending
func NewSwapRequest(fromUserID, toUserID, fromUserName, toUserName, skillOffered, skillWanted, message string) (*SwapRequest, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfSwap
	}

	now := time.Now()
	return &SwapRequest{
		ID:           uuid.New(),
		FromUserID:   fromUserID,
		ToUserID:     toUserID,
		FromUserName: fromUserName,
		ToUserName:   toUserName,
		SkillOffered: skillOffered,
		SkillWanted:  skillWanted,
		Message:      message,
		Status:       SwapStatusPending,
		ClosedCount:  0,
		ClosedBy:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsParticipant проверяет, участвует ли пользователь в обмене
func (s *SwapRequest) IsParticipant(userID string) bool {
	return s.FromUserID == userID || s.ToUserID == userID
}

// Counterpart возвращает ID второго участника обмена
func (s *SwapRequest) Counterpart(userID string) (string, bool) {
	switch userID {
	case s.FromUserID:
		return s.ToUserID, true
	case s.ToUserID:
		return s.FromUserID, true
	}
	return "", false
}

// Respond переводит предложение из pending в accepted или rejected.
// Отвечать может только адресат, и только пока предложение в ожидании.
func (s *SwapRequest) Respond(userID string, status SwapStatus) error {
	if status != SwapStatusAccepted && status != SwapStatusRejected {
		return ErrInvalidTransition
	}
	if s.ToUserID != userID {
		return ErrNotRecipient
	}
	if s.Status != SwapStatusPending {
		return ErrInvalidTransition
	}

	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

// Close фиксирует подтверждение закрытия обмена одним из участников.
// Каждый участник увеличивает счётчик ровно один раз; повторный вызов
// той же стороной — no-op. Когда подтвердили оба, статус становится closed.
// Возвращает true, если состояние изменилось.
func (s *SwapRequest) Close(userID string) (bool, error) {
	if !s.IsParticipant(userID) {
		return false, ErrNotParticipant
	}
	if s.Status != SwapStatusAccepted {
		if s.Status == SwapStatusClosed {
			return false, nil
		}
		return false, ErrNotAccepted
	}

	for _, id := range s.ClosedBy {
		if id == userID {
			return false, nil
		}
	}

	s.ClosedBy = append(s.ClosedBy, userID)
	s.ClosedCount = len(s.ClosedBy)
	if s.ClosedCount >= 2 {
		s.Status = SwapStatusClosed
	}
	s.UpdatedAt = time.Now()
	return true, nil
}

// NewFeedback создает оценку по обмену. Оценка допустима только после
// принятия обмена и адресуется второму участнику.
func (s *SwapRequest) NewFeedback(fromUserID string, rating int, comment string) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if s.Status != SwapStatusAccepted && s.Status != SwapStatusClosed && s.Status != SwapStatusCompleted {
		return nil, ErrNotAccepted
	}
	toUserID, ok := s.Counterpart(fromUserID)
	if !ok {
		return nil, ErrNotParticipant
	}

	return &Feedback{
		ID:            uuid.New(),
		SwapRequestID: s.ID,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     time.Now(),
	}, nil
}

// OngoingSwaps возвращает принятые обмены с участием пользователя
func OngoingSwaps(swaps []SwapRequest, userID string) []SwapRequest {
	result := make([]SwapRequest, 0, len(swaps))
	for _, s := range swaps {
		if s.Status == SwapStatusAccepted && s.IsParticipant(userID) {
			result = append(result, s)
		}
	}
	return result
}
