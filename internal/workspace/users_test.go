package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		email     string
		password  string
		nameFirst string
		nameLast  string
	}{
		{"bad email", "not-an-email", "hunter22", "Alice", "Nguyen"},
		{"short password", "alice@example.com", "abc", "Alice", "Nguyen"},
		{"empty first name", "alice@example.com", "hunter22", "", "Nguyen"},
		{"empty last name", "alice@example.com", "hunter22", "Alice", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.password, tc.nameFirst, tc.nameLast)
			requireKind(t, err, KindBadRequest)
		})
	}
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	svc := newTestService(t)

	a := registerUser(t, svc, "Alice", "Nguyen")
	b := registerUser(t, svc, "Bob", "Okafor")
	require.Equal(t, int64(1), a.UserID)
	require.Equal(t, int64(2), b.UserID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter22", "Alice", "Nguyen")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice@example.com", "hunter22", "Alicia", "Nguyen")
	requireKind(t, err, KindBadRequest)
}

func TestHandleCollisionsGetNumericSuffixes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := svc.Register(ctx, email, "hunter22", "Bob", "Lee")
		require.NoError(t, err, "register %d", i)
	}

	sess := registerUser(t, svc, "Carol", "Diaz")
	users, err := svc.AllUsers(ctx, sess)
	require.NoError(t, err)

	handles := make([]string, 0, len(users))
	for _, u := range users {
		handles = append(handles, u.Handle)
	}
	require.Contains(t, handles, "boblee")
	require.Contains(t, handles, "boblee0")
	require.Contains(t, handles, "boblee1")
}

func TestHandleStripsNonAlnumAndTruncates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "long@example.com", "hunter22", "Maximilian-Jonathan", "Featherstonehaugh")
	require.NoError(t, err)

	sess := Session{UserID: res.UserID, TokenID: res.SessionID}
	profile, err := svc.Profile(ctx, sess, res.UserID)
	require.NoError(t, err)
	require.Equal(t, "maximilianjonathanfe", profile.Handle)
	require.Len(t, profile.Handle, 20)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "hunter22", "Alice", "Nguyen")
	require.NoError(t, err)

	got, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, reg.UserID, got.UserID)
	require.NotEqual(t, reg.SessionID, got.SessionID)

	_, err = svc.Login(ctx, "alice@example.com", "wrongpass")
	requireKind(t, err, KindBadRequest)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	requireKind(t, err, KindBadRequest)
}

func TestLogoutRevokesOnlyCurrentSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "hunter22", "Alice", "Nguyen")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	first := Session{UserID: reg.UserID, TokenID: reg.SessionID}
	second := Session{UserID: login.UserID, TokenID: login.SessionID}

	require.NoError(t, svc.Logout(ctx, first))

	_, err = svc.AllUsers(ctx, first)
	requireKind(t, err, KindUnauthenticated)
	_, err = svc.AllUsers(ctx, second)
	require.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "hunter22", "Alice", "Nguyen")
	require.NoError(t, err)
	sess := Session{UserID: reg.UserID, TokenID: reg.SessionID}

	// Unknown emails are silently accepted so addresses cannot be probed.
	require.NoError(t, svc.PasswordResetRequest(ctx, "nobody@example.com"))

	require.NoError(t, svc.PasswordResetRequest(ctx, "alice@example.com"))

	// Requesting a reset revokes every session.
	_, err = svc.AllUsers(ctx, sess)
	requireKind(t, err, KindUnauthenticated)

	err = svc.PasswordReset(ctx, "no-such-code", "newpassword")
	requireKind(t, err, KindBadRequest)
	err = svc.PasswordReset(ctx, "", "newpassword")
	requireKind(t, err, KindBadRequest)
}

type captureMailer struct {
	email string
	code  string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, email, code string) error {
	m.email = email
	m.code = code
	return nil
}

func TestPasswordResetRoundTrip(t *testing.T) {
	mail := &captureMailer{}
	svc := newTestService(t, WithMailer(mail))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter22", "Alice", "Nguyen")
	require.NoError(t, err)

	require.NoError(t, svc.PasswordResetRequest(ctx, "alice@example.com"))
	require.Equal(t, "alice@example.com", mail.email)
	require.NotEmpty(t, mail.code)

	err = svc.PasswordReset(ctx, mail.code, "short")
	requireKind(t, err, KindBadRequest)
	require.NoError(t, svc.PasswordReset(ctx, mail.code, "newpassword"))

	// The code is single-use.
	err = svc.PasswordReset(ctx, mail.code, "anotherpassword")
	requireKind(t, err, KindBadRequest)

	_, err = svc.Login(ctx, "alice@example.com", "hunter22")
	requireKind(t, err, KindBadRequest)
	got, err := svc.Login(ctx, "alice@example.com", "newpassword")
	require.NoError(t, err)
	require.Equal(t, int64(1), got.UserID)
}
