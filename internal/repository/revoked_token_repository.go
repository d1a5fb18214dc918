package repository

import (
	"context"
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lookupTimeout bounds the denylist check on the request path. A lookup
// that cannot finish in time is reported as an error and the request is
// rejected rather than waved through.
const lookupTimeout = 2 * time.Second

// RevokedTokenRepository is the persistent denylist of session tokens.
// All concurrency safety is delegated to the storage engine; there is no
// application-level locking.
type RevokedTokenRepository struct {
	db     *gorm.DB
	window time.Duration
}

// NewRevokedTokenRepository wires the denylist to the database. The
// window is the lifetime of revoke-all sentinels, in hours.
func NewRevokedTokenRepository(db *gorm.DB, revokeAllWindowHours int) *RevokedTokenRepository {
	return &RevokedTokenRepository{
		db:     db,
		window: time.Duration(revokeAllWindowHours) * time.Hour,
	}
}

// Revoke inserts a denylist record for the jti. The record expires when
// the token itself would have; remembering it longer buys nothing.
// Revoking the same jti twice is a no-op.
func (r *RevokedTokenRepository) Revoke(jti string, userID uint, expiresAt time.Time, reason, ip, userAgent string) (*models.RevokedToken, error) {
	if reason == "" {
		reason = models.ReasonLogout
	}

	record := &models.RevokedToken{
		TokenJTI:  jti,
		UserID:    userID,
		RevokedAt: time.Now(),
		ExpiresAt: expiresAt,
		Reason:    reason,
		IPAddress: optional(ip),
		UserAgent: optional(userAgent),
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_jti"}},
		DoNothing: true,
	}).Create(record)

	if result.Error != nil {
		log.Error().Err(result.Error).Str("jti", jti).Msg("Failed to revoke token")
		return nil, result.Error
	}

	return record, nil
}

// IsRevoked reports whether an active denylist record blocks the jti,
// either directly or through a revoke-all sentinel for the user. Expired
// records never block; they only wait for cleanup. An error means the
// check could not be performed and the caller must fail closed.
func (r *RevokedTokenRepository) IsRevoked(jti string, userID uint) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("(token_jti = ? OR (user_id = ? AND token_jti LIKE ?)) AND expires_at > ?",
			jti, userID, models.SentinelJTIPrefix+"%", time.Now()).
		Count(&count).Error

	if err != nil {
		log.Error().Err(err).Str("jti", jti).Msg("Failed to check token revocation")
		return false, err
	}

	return count > 0, nil
}

// RevokeAll drops a single user-wide sentinel instead of enumerating the
// user's live tokens; there is no table of issued tokens to enumerate.
// Known approximation: the sentinel only lives for the configured
// window, so a token issued with a TTL longer than the window can
// outlive it.
func (r *RevokedTokenRepository) RevokeAll(userID uint, reason string) (int64, error) {
	if reason == "" {
		reason = models.ReasonRevokeAll
	}

	sentinel := &models.RevokedToken{
		TokenJTI:  models.SentinelJTIPrefix + uuid.New().String(),
		UserID:    userID,
		RevokedAt: time.Now(),
		ExpiresAt: time.Now().Add(r.window),
		Reason:    reason,
	}

	result := r.db.Create(sentinel)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("user_id", userID).Msg("Failed to revoke user sessions")
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// CleanExpired deletes records whose expiry has passed. Purely storage
// reclamation: IsRevoked already filters by expiry, so running this at
// any moment, concurrently with anything, changes no answer.
func (r *RevokedTokenRepository) CleanExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).
		Delete(&models.RevokedToken{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// RevocationStats is a diagnostic aggregate over the denylist.
type RevocationStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
}

// Stats counts total, active and expired denylist records.
func (r *RevokedTokenRepository) Stats() (RevocationStats, error) {
	var stats RevocationStats
	now := time.Now()

	if err := r.db.Model(&models.RevokedToken{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.RevokedToken{}).
		Where("expires_at > ?", now).
		Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	stats.Expired = stats.Total - stats.Active

	return stats, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
