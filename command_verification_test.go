package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-merchant-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type sentEmail struct {
	email string
	token string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeDispatcher) SendVerificationEmail(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{email: email, token: token})
	return f.err
}

func setupVerificationRepo(t *testing.T) (*bun.DB, auth.RepositoryManager) {
	t.Helper()

	client, err := auth.NewPersistenceClient(auth.PersistenceConfig{DSN: ":memory:"})
	require.NoError(t, err)
	db := client.DB()
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, client.Migrate(context.Background()))

	repo := auth.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())
	return db, repo
}

func nopLogger() auth.Logger {
	return auth.NewZapLogger(zap.NewNop())
}

func TestIssueVerificationStoresTokenAndSendsEmail(t *testing.T) {
	ctx := context.Background()
	_, repo := setupVerificationRepo(t)
	dispatcher := &fakeDispatcher{}
	sink := &capturingSink{}

	issuer := auth.NewIssueVerificationHandler(repo, dispatcher).
		WithLogger(nopLogger()).
		WithActivitySink(sink)

	token, err := issuer.Issue(ctx, "owner@store.test")
	require.NoError(t, err)
	_, err = uuid.Parse(token)
	require.NoError(t, err)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, sentEmail{email: "owner@store.test", token: token}, dispatcher.sent[0])

	require.Len(t, sink.events, 1)
	assert.Equal(t, auth.ActivityEventVerificationIssued, sink.events[0].EventType)

	var stored *auth.VerificationToken
	err = repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		stored, err = repo.VerificationTokens().GetByTokenTx(ctx, tx, token)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, auth.VerificationPendingStatus, stored.Status)
	assert.Equal(t, "owner@store.test", stored.Email)
	assert.NotEqual(t, uuid.Nil, stored.RecipientID)
}

func TestIssueVerificationSupersedesPendingTokens(t *testing.T) {
	ctx := context.Background()
	_, repo := setupVerificationRepo(t)
	dispatcher := &fakeDispatcher{}

	issuer := auth.NewIssueVerificationHandler(repo, dispatcher).WithLogger(nopLogger())
	verifier := auth.NewVerifyEmailHandler(repo).WithLogger(nopLogger())

	first, err := issuer.Issue(ctx, "owner@store.test")
	require.NoError(t, err)

	var resp *auth.IssueVerificationResponse
	err = issuer.Execute(ctx, auth.IssueVerificationMessage{
		Email:      "Owner@store.test",
		OnResponse: func(r *auth.IssueVerificationResponse) { resp = r },
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.Superseded)

	old, err := verifier.Verify(ctx, first)
	require.NoError(t, err)
	assert.True(t, old.Found)
	assert.True(t, old.Expired)
	assert.False(t, old.Verified)

	latest, err := verifier.Verify(ctx, resp.Token.Token())
	require.NoError(t, err)
	assert.True(t, latest.Verified)
}

func TestIssueVerificationReturnsProviderError(t *testing.T) {
	ctx := context.Background()
	db, repo := setupVerificationRepo(t)
	providerErr := errors.New("resend: 500 internal_server_error")
	dispatcher := &fakeDispatcher{err: providerErr}
	sink := &capturingSink{}

	issuer := auth.NewIssueVerificationHandler(repo, dispatcher).
		WithLogger(nopLogger()).
		WithActivitySink(sink)

	_, err := issuer.Issue(ctx, "owner@store.test")
	require.ErrorIs(t, err, providerErr)
	assert.Empty(t, sink.events)

	// the token row is rolled back with the failed send
	count, err := db.NewSelect().Model((*auth.VerificationToken)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFailedReissueKeepsEarlierTokenUsable(t *testing.T) {
	ctx := context.Background()
	_, repo := setupVerificationRepo(t)
	dispatcher := &fakeDispatcher{}

	issuer := auth.NewIssueVerificationHandler(repo, dispatcher).WithLogger(nopLogger())
	verifier := auth.NewVerifyEmailHandler(repo).WithLogger(nopLogger())

	first, err := issuer.Issue(ctx, "owner@store.test")
	require.NoError(t, err)

	dispatcher.err = errors.New("provider down")
	_, err = issuer.Issue(ctx, "owner@store.test")
	require.EqualError(t, err, "provider down")

	resp, err := verifier.Verify(ctx, first)
	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.False(t, resp.Expired)
	assert.True(t, resp.Verified)
}

func TestIssueVerificationRequiresDispatcherAndEmail(t *testing.T) {
	ctx := context.Background()
	_, repo := setupVerificationRepo(t)

	_, err := auth.NewIssueVerificationHandler(repo, nil).WithLogger(nopLogger()).Issue(ctx, "owner@store.test")
	require.Error(t, err)

	_, err = auth.NewIssueVerificationHandler(repo, &fakeDispatcher{}).WithLogger(nopLogger()).Issue(ctx, "  ")
	require.Error(t, err)
}

func TestVerifyEmailConsumesTokenOnce(t *testing.T) {
	ctx := context.Background()
	_, repo := setupVerificationRepo(t)
	sink := &capturingSink{}

	token, err := auth.NewIssueVerificationHandler(repo, &fakeDispatcher{}).
		WithLogger(nopLogger()).
		Issue(ctx, "owner@store.test")
	require.NoError(t, err)

	verifier := auth.NewVerifyEmailHandler(repo).
		WithLogger(nopLogger()).
		WithActivitySink(sink)

	resp, err := verifier.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &auth.VerifyEmailResponse{
		Email:    "owner@store.test",
		Found:    true,
		Verified: true,
	}, resp)

	again, err := verifier.Verify(ctx, token)
	require.NoError(t, err)
	assert.True(t, again.Found)
	assert.True(t, again.Expired)
	assert.False(t, again.Verified)

	require.Len(t, sink.events, 1)
	assert.Equal(t, auth.ActivityEventEmailVerified, sink.events[0].EventType)
}

func TestVerifyEmailExpiresOldTokens(t *testing.T) {
	ctx := context.Background()
	db, repo := setupVerificationRepo(t)

	token, err := auth.NewIssueVerificationHandler(repo, &fakeDispatcher{}).
		WithLogger(nopLogger()).
		Issue(ctx, "owner@store.test")
	require.NoError(t, err)

	_, err = db.NewUpdate().
		Model((*auth.VerificationToken)(nil)).
		Set("created_at = ?", time.Now().Add(-2*time.Hour).UTC()).
		Where("id = ?", token).
		Exec(ctx)
	require.NoError(t, err)

	verifier := auth.NewVerifyEmailHandler(repo).
		WithLogger(nopLogger()).
		WithTTL(time.Hour)

	resp, err := verifier.Verify(ctx, token)
	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.True(t, resp.Expired)
	assert.False(t, resp.Verified)

	var status string
	err = db.NewSelect().
		Model((*auth.VerificationToken)(nil)).
		Column("status").
		Where("id = ?", token).
		Scan(ctx, &status)
	require.NoError(t, err)
	assert.Equal(t, auth.VerificationExpiredStatus, status)
}

func TestVerifyEmailUnknownAndMissingTokens(t *testing.T) {
	ctx := context.Background()
	_, repo := setupVerificationRepo(t)
	verifier := auth.NewVerifyEmailHandler(repo).WithLogger(nopLogger())

	for _, token := range []string{uuid.NewString(), "not-a-uuid"} {
		resp, err := verifier.Verify(ctx, token)
		require.NoError(t, err)
		assert.False(t, resp.Found)
		assert.False(t, resp.Verified)
	}

	_, err := verifier.Verify(ctx, "")
	require.Error(t, err)
}
