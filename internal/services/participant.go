package services

import (
	"errors"
	"time"

	"github.com/RubeldiRubelda/merryweihnachten/internal/models"

	"gorm.io/gorm"
)

// ParticipantService owns the participant records. Every operation touches
// exactly one record, so there is no cross-record transaction logic;
// concurrent writes to the same phone number are last-write-wins.
type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

// GetOrCreate registers a participant if the phone number is new and returns
// the existing record untouched otherwise. Re-registering under a different
// name keeps the original name.
func (s *ParticipantService) GetOrCreate(phoneNumber, name string) (*models.Participant, bool, error) {
	var p models.Participant
	if err := s.db.Where("phone_number = ?", phoneNumber).First(&p).Error; err == nil {
		return &p, false, nil
	}

	p = models.Participant{
		PhoneNumber: phoneNumber,
		Name:        name,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&p).Error; err != nil {
		// Lost a race against a concurrent registration; the winner's
		// record is the one that counts.
		var existing models.Participant
		if ferr := s.db.Where("phone_number = ?", phoneNumber).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &p, true, nil
}

// Create adds a participant and fails with ErrAlreadyExists on a duplicate
// phone number. Used by the admin panel, where a duplicate is a mistake
// rather than a repeat login.
func (s *ParticipantService) Create(phoneNumber, name string) (*models.Participant, error) {
	p, created, err := s.GetOrCreate(phoneNumber, name)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyExists
	}
	return p, nil
}

func (s *ParticipantService) Get(phoneNumber string) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.Where("phone_number = ?", phoneNumber).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ParticipantService) List() ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Order("id ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// ListGroups returns the distinct non-empty group labels currently assigned.
func (s *ParticipantService) ListGroups() ([]string, error) {
	var groups []string
	err := s.db.Model(&models.Participant{}).
		Where("\"group\" <> ''").
		Distinct().
		Order("\"group\" ASC").
		Pluck("group", &groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *ParticipantService) AssignGroup(phoneNumber, group string) error {
	return s.updateColumn(phoneNumber, "group", group)
}

// AddPoints adds delta (possibly negative) to the participant's points. The
// addition happens in the database, so concurrent deltas compose instead of
// clobbering each other.
func (s *ParticipantService) AddPoints(phoneNumber string, delta int) error {
	res := s.db.Model(&models.Participant{}).
		Where("phone_number = ?", phoneNumber).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPoints overwrites the participant's points absolutely.
func (s *ParticipantService) SetPoints(phoneNumber string, points int) error {
	return s.updateColumn(phoneNumber, "points", points)
}

func (s *ParticipantService) AssignTask(phoneNumber, task string) error {
	return s.updateColumn(phoneNumber, "task", task)
}

func (s *ParticipantService) Delete(phoneNumber string) error {
	res := s.db.Where("phone_number = ?", phoneNumber).Delete(&models.Participant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type LeaderboardEntry struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Points      int    `json:"points"`
}

// Leaderboard returns all participants sorted by points descending. Ties keep
// registration order.
func (s *ParticipantService) Leaderboard() ([]LeaderboardEntry, error) {
	var participants []models.Participant
	if err := s.db.Order("points DESC, id ASC").Find(&participants).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, LeaderboardEntry{
			PhoneNumber: p.PhoneNumber,
			Name:        p.Name,
			Group:       p.Group,
			Points:      p.Points,
		})
	}
	return entries, nil
}

func (s *ParticipantService) updateColumn(phoneNumber, column string, value interface{}) error {
	res := s.db.Model(&models.Participant{}).
		Where("phone_number = ?", phoneNumber).
		UpdateColumn(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
