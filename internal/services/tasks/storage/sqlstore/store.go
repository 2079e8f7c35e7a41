// Package sqlstore implements the task service storage contracts over
// database/sql. Driver packages supply the connection, schema, and a dialect
// that recognizes unique-constraint violations.
package sqlstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/taskboard/internal/platform/requestctx"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/task"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/taskboard/internal/services/tasks/storage/sqlstore"

// Dialect captures the driver-specific behavior the shared queries need.
type Dialect struct {
	// Name is reported as the db.system span attribute.
	Name string
	// IsUniqueViolation reports whether err is a unique-constraint failure.
	IsUniqueViolation func(error) bool
}

// Store implements storage.Store over a *sql.DB.
type Store struct {
	sqlDB   *sql.DB
	dialect Dialect
	tracer  trace.Tracer
}

// New wraps an open, migrated database handle.
func New(sqlDB *sql.DB, dialect Dialect) *Store {
	if dialect.IsUniqueViolation == nil {
		dialect.IsUniqueViolation = func(error) bool { return false }
	}
	return &Store{
		sqlDB:   sqlDB,
		dialect: dialect,
		tracer:  otel.Tracer(tracerName),
	}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	return nil
}

func (s *Store) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("db.system", s.dialect.Name)}
	if requestctx.IsAuthenticated(ctx) {
		attrs = append(attrs, attribute.String("enduser.id", requestctx.UserIDFromContext(ctx)))
	}
	return s.tracer.Start(ctx, "sqlstore."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// InsertUser stores a new account.
func (s *Store) InsertUser(ctx context.Context, u user.User) (err error) {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "InsertUser")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username is required")
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.PasswordHash,
		toMillis(u.CreatedAt),
	)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByUsername loads an account by its exact username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (_ user.User, err error) {
	if err := s.ready(); err != nil {
		return user.User{}, err
	}
	ctx, span := s.startSpan(ctx, "FindUserByUsername")
	defer func() { endSpan(span, err) }()

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

// FindUser loads an account by id.
func (s *Store) FindUser(ctx context.Context, userID string) (_ user.User, err error) {
	if err := s.ready(); err != nil {
		return user.User{}, err
	}
	ctx, span := s.startSpan(ctx, "FindUser")
	defer func() { endSpan(span, err) }()

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`,
		userID,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

const taskColumns = `id, owner_id, title, memo, important, do_date, created_at`

// InsertTask stores a new task.
func (s *Store) InsertTask(ctx context.Context, t task.Task) (err error) {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "InsertTask")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("task id is required")
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return errors.New("task owner is required")
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Memo,
		boolToInt(t.Important),
		nullableMillis(t.DoDate),
		toMillis(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// FindTask loads one task owned by ownerID.
func (s *Store) FindTask(ctx context.Context, ownerID string, taskID string) (_ task.Task, err error) {
	if err := s.ready(); err != nil {
		return task.Task{}, err
	}
	ctx, span := s.startSpan(ctx, "FindTask")
	defer func() { endSpan(span, err) }()

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? AND id = ?`,
		ownerID,
		taskID,
	)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

// FindTasksByOwner lists tasks owned by ownerID in filter order.
func (s *Store) FindTasksByOwner(ctx context.Context, ownerID string, filter storage.TaskFilter) (_ []task.Task, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "FindTasksByOwner")
	defer func() { endSpan(span, err) }()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	switch filter {
	case storage.TaskFilterPending:
		query += ` AND do_date IS NULL ORDER BY created_at ASC, id ASC`
	case storage.TaskFilterCompleted:
		query += ` AND do_date IS NOT NULL ORDER BY do_date DESC, id ASC`
	case storage.TaskFilterAll:
		query += ` ORDER BY created_at ASC, id ASC`
	default:
		return nil, fmt.Errorf("unknown task filter %d", filter)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask rewrites the mutable columns of an owned task.
func (s *Store) UpdateTask(ctx context.Context, t task.Task) (err error) {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "UpdateTask")
	defer func() { endSpan(span, err) }()

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE tasks SET title = ?, memo = ?, important = ?, do_date = ? WHERE owner_id = ? AND id = ?`,
		t.Title,
		t.Memo,
		boolToInt(t.Important),
		nullableMillis(t.DoDate),
		t.OwnerID,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(result)
}

// DeleteTask removes an owned task.
func (s *Store) DeleteTask(ctx context.Context, ownerID string, taskID string) (err error) {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "DeleteTask")
	defer func() { endSpan(span, err) }()

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = ? AND id = ?`, ownerID, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTask(scan func(dest ...any) error) (task.Task, error) {
	var t task.Task
	var important int64
	var doDate sql.NullInt64
	var createdAt int64
	if err := scan(&t.ID, &t.OwnerID, &t.Title, &t.Memo, &important, &doDate, &createdAt); err != nil {
		return task.Task{}, err
	}
	t.Important = important != 0
	if doDate.Valid {
		completedAt := fromMillis(doDate.Int64)
		t.DoDate = &completedAt
	}
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

// PutSession stores a session keyed by the hash of its id.
func (s *Store) PutSession(ctx context.Context, session storage.Session) (err error) {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "PutSession")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	if strings.TrimSpace(session.UserID) == "" {
		return errors.New("session user id is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= ?`, toMillis(session.CreatedAt)); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO web_sessions (session_hash, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		hashSessionID(session.ID),
		session.UserID,
		toMillis(session.CreatedAt),
		toMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// FindSession loads an unexpired session by its raw id.
func (s *Store) FindSession(ctx context.Context, sessionID string, now time.Time) (_ storage.Session, err error) {
	if err := s.ready(); err != nil {
		return storage.Session{}, err
	}
	ctx, span := s.startSpan(ctx, "FindSession")
	defer func() { endSpan(span, err) }()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Session{}, storage.ErrNotFound
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, created_at, expires_at FROM web_sessions WHERE session_hash = ? AND expires_at > ?`,
		hashSessionID(sessionID),
		toMillis(now),
	)
	session := storage.Session{ID: sessionID}
	var createdAt int64
	var expiresAt int64
	if err := row.Scan(&session.UserID, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, fmt.Errorf("find session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	session.ExpiresAt = fromMillis(expiresAt)
	return session, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) (err error) {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "DeleteSession")
	defer func() { endSpan(span, err) }()

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE session_hash = ?`, hashSessionID(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func hashSessionID(sessionID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(sessionID)))
	return hex.EncodeToString(sum[:])
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

func nullableMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

var _ storage.Store = (*Store)(nil)
