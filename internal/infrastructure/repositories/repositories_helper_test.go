package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"ideagraph.backend/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAccountTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		phone TEXT UNIQUE,
		password_hash TEXT NOT NULL,
		email_verified BOOLEAN DEFAULT false,
		phone_verified BOOLEAN DEFAULT false,
		created_at DATETIME,
		updated_at DATETIME,
		deactivated_at DATETIME,
		suspended_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		location TEXT,
		summary TEXT,
		image_url TEXT,
		cover_url TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deactivated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE verification_codes (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		channel TEXT NOT NULL,
		code TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		verified_at DATETIME,
		created_at DATETIME
	);`)
}

func createSessionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE devices (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		model TEXT,
		address TEXT,
		created_at DATETIME,
		last_seen_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		device_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		issuer TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		revoked_at DATETIME,
		revoked_reason TEXT,
		replaced_by TEXT
	);`)
}

func createContentTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contents (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		author_id TEXT NOT NULL,
		title TEXT,
		summary TEXT,
		body TEXT,
		cover_image TEXT,
		status TEXT,
		format TEXT,
		message TEXT,
		sentiment TEXT,
		tickers TEXT,
		reply_to TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE reactions (
		profile_id TEXT NOT NULL,
		content_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at DATETIME,
		PRIMARY KEY (profile_id, content_id)
	);`)
	mustExec(t, db, `CREATE TABLE follows (
		follower_id TEXT NOT NULL,
		followee_id TEXT NOT NULL,
		created_at DATETIME,
		PRIMARY KEY (follower_id, followee_id)
	);`)
	mustExec(t, db, `CREATE TABLE reports (
		id TEXT PRIMARY KEY,
		reporter_id TEXT NOT NULL,
		content_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func seedProfile(t *testing.T, db *gorm.DB, name string) (*entities.Account, *entities.Profile) {
	t.Helper()
	account := &entities.Account{
		Email:        fmt.Sprintf("%s_%s@ideagraph.io", name, uuid.NewString()[:8]),
		PasswordHash: "hash",
	}
	profile := &entities.Profile{Name: name}
	require.NoError(t, NewAccountRepository(db).Create(t.Context(), account, profile))
	return account, profile
}

func seedIdea(t *testing.T, db *gorm.DB, author uuid.UUID, replyTo string) *entities.Idea {
	t.Helper()
	idea := &entities.Idea{
		ID:        ksuid.New().String(),
		AuthorID:  author,
		Message:   "a long enough idea message",
		Sentiment: entities.SentimentNeutral,
		Tickers:   []string{"AAPL"},
	}
	if replyTo != "" {
		idea.ReplyTo.SetValid(replyTo)
	}
	require.NoError(t, NewContentRepository(db).CreateIdea(t.Context(), idea))
	return idea
}
