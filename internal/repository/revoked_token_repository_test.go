package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*RevokedTokenRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "revoked.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RevokedToken{}))

	return NewRevokedTokenRepository(db, 24), db
}

func TestRevokeAndIsRevoked(t *testing.T) {
	store, _ := newTestStore(t)

	revoked, err := store.IsRevoked("jti-1", 1)
	require.NoError(t, err)
	require.False(t, revoked)

	record, err := store.Revoke("jti-1", 1, time.Now().Add(time.Hour), "", "203.0.113.7", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, models.ReasonLogout, record.Reason)
	require.NotNil(t, record.IPAddress)
	assert.Equal(t, "203.0.113.7", *record.IPAddress)

	revoked, err = store.IsRevoked("jti-1", 1)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other identifiers stay unaffected
	revoked, err = store.IsRevoked("jti-2", 1)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeIdempotent(t *testing.T) {
	store, db := newTestStore(t)

	_, err := store.Revoke("jti-1", 1, time.Now().Add(time.Hour), "logout", "", "")
	require.NoError(t, err)
	_, err = store.Revoke("jti-1", 1, time.Now().Add(time.Hour), "logout", "", "")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.RevokedToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestExpiredRecordDoesNotBlock(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Revoke("jti-old", 1, time.Now().Add(-time.Minute), "", "", "")
	require.NoError(t, err)

	revoked, err := store.IsRevoked("jti-old", 1)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCleanExpiredNonInterference(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Revoke("jti-live", 1, time.Now().Add(time.Hour), "", "", "")
	require.NoError(t, err)
	_, err = store.Revoke("jti-dead", 1, time.Now().Add(-time.Hour), "", "", "")
	require.NoError(t, err)

	removed, err := store.CleanExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	// The live record still blocks its token
	revoked, err := store.IsRevoked("jti-live", 1)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Idempotent: nothing left to remove
	removed, err = store.CleanExpired()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRevokeAllSentinel(t *testing.T) {
	store, db := newTestStore(t)

	count, err := store.RevokeAll(7, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Any jti of that user is blocked while the sentinel is active
	revoked, err := store.IsRevoked("some-live-jti", 7)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other users are untouched
	revoked, err = store.IsRevoked("some-live-jti", 8)
	require.NoError(t, err)
	assert.False(t, revoked)

	// Once the sentinel window passes, tokens that outlived it work
	// again: the documented revoke-all approximation.
	require.NoError(t, db.Model(&models.RevokedToken{}).
		Where("user_id = ?", 7).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	revoked, err = store.IsRevoked("some-live-jti", 7)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestStats(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Revoke("jti-live", 1, time.Now().Add(time.Hour), "", "", "")
	require.NoError(t, err)
	_, err = store.Revoke("jti-dead", 2, time.Now().Add(-time.Hour), "", "", "")
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Active)
	assert.EqualValues(t, 1, stats.Expired)
}
