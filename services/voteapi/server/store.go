package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PointAccount is the per-wallet gamification record.
type PointAccount struct {
	WalletAddress   string `gorm:"primaryKey"`
	TotalPoints     int    `gorm:"not null"`
	AvailablePoints int    `gorm:"not null"`
	Level           int    `gorm:"not null"`
	Streak          int    `gorm:"not null"`
	LastVoteAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VoteActivity is one recorded vote in the ledger.
type VoteActivity struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProposalID    string    `gorm:"index:idx_vote_once,unique"`
	WalletAddress string    `gorm:"index:idx_vote_once,unique"`
	Direction     string
	Mode          string
	Reference     string
	Points        int
	CreatedAt     time.Time
}

// Ledger is the explicit store behind the rewards endpoints. It replaces the
// in-memory activity array the first prototype used.
type Ledger interface {
	RecordVote(ctx context.Context, activity VoteActivity) (PointAccount, int, error)
	Points(ctx context.Context, wallet string) (PointAccount, error)
	Leaderboard(ctx context.Context, limit int) ([]PointAccount, error)
	Close() error
}

// streakWindow is how long a streak survives between votes.
const streakWindow = 48 * time.Hour

type sqliteLedger struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenLedger opens (or creates) the SQLite-backed ledger at path. The path
// ":memory:" yields an ephemeral store for tests.
func OpenLedger(path string) (Ledger, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if err := db.AutoMigrate(&PointAccount{}, &VoteActivity{}); err != nil {
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}
	return &sqliteLedger{db: db, now: time.Now}, nil
}

// RecordVote persists the activity and awards points. Recording the same
// (proposal, wallet) pair twice is a no-op that returns zero newly earned
// points, so retried notifications never double-award.
func (l *sqliteLedger) RecordVote(ctx context.Context, activity VoteActivity) (PointAccount, int, error) {
	wallet := strings.ToLower(strings.TrimSpace(activity.WalletAddress))
	if wallet == "" || activity.ProposalID == "" {
		return PointAccount{}, 0, fmt.Errorf("proposal id and wallet address required")
	}
	activity.WalletAddress = wallet
	activity.ID = uuid.New()
	activity.CreatedAt = l.now()

	var account PointAccount
	earned := 0
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior VoteActivity
		err := tx.Where("proposal_id = ? AND wallet_address = ?", activity.ProposalID, wallet).
			First(&prior).Error
		if err == nil {
			return tx.Where("wallet_address = ?", wallet).First(&account).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}
		err = tx.Where("wallet_address = ?", wallet).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account = PointAccount{WalletAddress: wallet, Level: 1}
		} else if err != nil {
			return err
		}
		earned = activity.Points
		account.TotalPoints += earned
		account.AvailablePoints += earned
		account.Level = 1 + account.TotalPoints/500
		if !account.LastVoteAt.IsZero() && activity.CreatedAt.Sub(account.LastVoteAt) <= streakWindow {
			account.Streak++
		} else {
			account.Streak = 1
		}
		account.LastVoteAt = activity.CreatedAt
		return tx.Save(&account).Error
	})
	if err != nil {
		return PointAccount{}, 0, fmt.Errorf("record vote: %w", err)
	}
	return account, earned, nil
}

// Points returns the wallet's account, zero-valued when it has never voted.
func (l *sqliteLedger) Points(ctx context.Context, wallet string) (PointAccount, error) {
	wallet = strings.ToLower(strings.TrimSpace(wallet))
	var account PointAccount
	err := l.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PointAccount{WalletAddress: wallet, Level: 1}, nil
	}
	if err != nil {
		return PointAccount{}, fmt.Errorf("load points: %w", err)
	}
	return account, nil
}

// Leaderboard returns the top accounts by total points.
func (l *sqliteLedger) Leaderboard(ctx context.Context, limit int) ([]PointAccount, error) {
	if limit <= 0 {
		limit = 10
	}
	var accounts []PointAccount
	err := l.db.WithContext(ctx).
		Order("total_points DESC").
		Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return accounts, nil
}

func (l *sqliteLedger) Close() error {
	db, err := l.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
