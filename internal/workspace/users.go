package workspace

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tanvi-28/huddle/internal/models"
)

var validate = validator.New()

const (
	minPasswordLen = 6
	maxNameLen     = 50
	maxHandleLen   = 20
)

// AuthResult is returned by Register and Login. The session id goes into the
// JWT; the caller mints the actual token string.
type AuthResult struct {
	UserID    int64
	SessionID string
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// baseHandle builds the raw handle from the user's names: lowercase
// alphanumerics only, trimmed to 20 characters.
func baseHandle(nameFirst, nameLast string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(nameFirst + nameLast) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	h := b.String()
	if len(h) > maxHandleLen {
		h = h[:maxHandleLen]
	}
	return h
}

// uniqueHandle resolves handle collisions by appending a numeric suffix and
// incrementing it until the handle is free. The loop is bounded by the user
// count: each taken handle eliminates at most one candidate.
func uniqueHandle(st *models.State, handle string) string {
	if userByHandle(st, handle) == nil {
		return handle
	}
	for n := 0; ; n++ {
		candidate := handle + strconv.Itoa(n)
		if userByHandle(st, candidate) == nil {
			return candidate
		}
	}
}

// Register creates a user, derives a unique handle, and opens a fresh
// session. The first registered user gets id 1 and implicit workspace-owner
// standing.
func (s *Service) Register(ctx context.Context, email, password, nameFirst, nameLast string) (AuthResult, error) {
	var res AuthResult

	if !validEmail(email) {
		return res, badRequest("email entered is not a valid email")
	}
	if len(password) < minPasswordLen {
		return res, badRequest("length of password is less than %d characters", minPasswordLen)
	}
	if len(nameFirst) < 1 || len(nameFirst) > maxNameLen {
		return res, badRequest("length of nameFirst is not between 1 and %d characters inclusive", maxNameLen)
	}
	if len(nameLast) < 1 || len(nameLast) > maxNameLen {
		return res, badRequest("length of nameLast is not between 1 and %d characters inclusive", maxNameLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return res, err
	}

	err = s.store.Update(ctx, func(st *models.State) error {
		for i := range st.Users {
			if st.Users[i].Email == email {
				return badRequest("email is already being used by another user")
			}
		}

		st.LastUserID++
		sessionID := uuid.NewString()
		user := models.User{
			ID:           st.LastUserID,
			Email:        email,
			NameFirst:    nameFirst,
			NameLast:     nameLast,
			Handle:       uniqueHandle(st, baseHandle(nameFirst, nameLast)),
			PasswordHash: string(hash),
			Sessions:     []string{sessionID},
		}
		st.Users = append(st.Users, user)

		res = AuthResult{UserID: user.ID, SessionID: sessionID}
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info("user registered", zap.Int64("user_id", res.UserID))
	return res, nil
}

// Login verifies credentials and opens an additional session.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var res AuthResult

	err := s.store.Update(ctx, func(st *models.State) error {
		var user *models.User
		for i := range st.Users {
			if st.Users[i].Email == email {
				user = &st.Users[i]
				break
			}
		}
		if user == nil {
			return badRequest("invalid email")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return badRequest("invalid password")
		}

		sessionID := uuid.NewString()
		user.Sessions = append(user.Sessions, sessionID)
		res = AuthResult{UserID: user.ID, SessionID: sessionID}
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

// Logout revokes the caller's current session. Other sessions stay live.
func (s *Service) Logout(ctx context.Context, sess Session) error {
	return s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		kept := user.Sessions[:0]
		for _, id := range user.Sessions {
			if id != sess.TokenID {
				kept = append(kept, id)
			}
		}
		user.Sessions = kept
		return nil
	})
}

// PasswordResetRequest stores a fresh reset code for the account and hands
// it to the mailer. All sessions are revoked. An unknown email is not an
// error, so callers cannot probe which addresses are registered.
func (s *Service) PasswordResetRequest(ctx context.Context, email string) error {
	var code string

	err := s.store.Update(ctx, func(st *models.State) error {
		for i := range st.Users {
			if st.Users[i].Email == email {
				code = uuid.NewString()
				st.Users[i].ResetCode = code
				st.Users[i].Sessions = []string{}
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if code == "" {
		return nil
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, email, code); err != nil {
			s.log.Error("password reset mail failed", zap.Error(err))
		}
	}
	return nil
}

// PasswordReset sets a new password for the account holding the reset code
// and clears the code.
func (s *Service) PasswordReset(ctx context.Context, resetCode, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return badRequest("password cannot be less than %d characters", minPasswordLen)
	}
	if resetCode == "" {
		return badRequest("invalid reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, func(st *models.State) error {
		for i := range st.Users {
			if st.Users[i].ResetCode == resetCode {
				st.Users[i].PasswordHash = string(hash)
				st.Users[i].ResetCode = ""
				return nil
			}
		}
		return badRequest("invalid reset code")
	})
}
