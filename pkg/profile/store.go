package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumigen/lumigen/pkg/plan"
)

// Profile is a user account record as the rest of the application sees it.
type Profile struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	Tier        plan.Tier `json:"tier"`
	NicheAlerts bool      `json:"nicheAlerts"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store persists user profiles in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a profile store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ensure upserts a profile row for the user, creating a free-tier record on
// first contact. The email is only written on insert; tier changes go through
// SetTier so a race with a billing webhook cannot downgrade a paid user.
func (s *Store) Ensure(ctx context.Context, userID uuid.UUID, email string) (Profile, error) {
	const q = `
		INSERT INTO user_profiles (user_id, email, tier, niche_alerts, created_at, updated_at)
		VALUES ($1, $2, $3, false, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING user_id, email, tier, niche_alerts, created_at, updated_at`

	return s.scanRow(s.pool.QueryRow(ctx, q, userID, email, plan.TierFree))
}

// Get fetches a profile, returning ErrNotFound when none exists.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	const q = `
		SELECT user_id, email, tier, niche_alerts, created_at, updated_at
		FROM user_profiles WHERE user_id = $1`

	p, err := s.scanRow(s.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, ErrStoreFailure) && errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// SetTier records a tier change, typically driven by a billing webhook.
func (s *Store) SetTier(ctx context.Context, userID uuid.UUID, tier plan.Tier) error {
	const q = `UPDATE user_profiles SET tier = $2, updated_at = now() WHERE user_id = $1`

	tag, err := s.pool.Exec(ctx, q, userID, tier)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetNicheAlerts toggles the daily niche digest subscription.
func (s *Store) SetNicheAlerts(ctx context.Context, userID uuid.UUID, enabled bool) error {
	const q = `UPDATE user_profiles SET niche_alerts = $2, updated_at = now() WHERE user_id = $1`

	tag, err := s.pool.Exec(ctx, q, userID, enabled)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAlertRecipients returns the email addresses of users subscribed to the
// daily niche digest. Free-tier users are excluded because the feed itself is
// a paid feature.
func (s *Store) ListAlertRecipients(ctx context.Context) ([]string, error) {
	const q = `SELECT email FROM user_profiles WHERE niche_alerts = true AND tier <> 'free' AND email <> '' ORDER BY email`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return emails, nil
}

func (s *Store) scanRow(row pgx.Row) (Profile, error) {
	var (
		p    Profile
		tier string
	)
	if err := row.Scan(&p.UserID, &p.Email, &tier, &p.NicheAlerts, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Profile{}, errors.Join(ErrStoreFailure, err)
	}
	p.Tier = plan.ParseTier(tier)
	return p, nil
}
