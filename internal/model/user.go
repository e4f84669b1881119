package model

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the single document type of the system. Follower/following edges and
// images are embedded rather than normalized; the paired arrays are maintained
// together by the follow service.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Password   string             `bson:"password,omitempty" json:"-"`
	Images     []Image            `bson:"images" json:"images"`
	Followers  []FollowEdge       `bson:"followers" json:"followers"`
	Followings []FollowEdge       `bson:"followings" json:"followings"`

	ResetPasswordToken  string    `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"-"`
	UpdatedAt time.Time `bson:"updatedAt" json:"-"`
}

// FollowEdge is one side of a follow relationship. The edge from A to B is
// stored twice: in B's followers and in A's followings. The username is a
// denormalized snapshot taken at follow time.
type FollowEdge struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
}

// UsernameSuggestion is the autocomplete projection: username only.
type UsernameSuggestion struct {
	Username string `bson:"username" json:"username"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// EditAction is the typed form of the edit endpoint's action field.
type EditAction int

const (
	ActionFollow EditAction = iota
	ActionUnfollow
)

// ParseEditAction maps the wire action string onto an EditAction.
func ParseEditAction(s string) (EditAction, error) {
	switch strings.ToLower(s) {
	case "follow":
		return ActionFollow, nil
	case "unfollow":
		return ActionUnfollow, nil
	default:
		return 0, ErrInvalidEditAction
	}
}

// EditUserRequest is the body of PUT /api/users/{id}. ID is the acting user;
// the path parameter names the target.
type EditUserRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// FieldErrors maps field names to validation messages, mirroring the client's
// schema-declared validation so the server never trusts the client alone.
type FieldErrors map[string]string

// passwordSpecials is the special-character set the signup schema accepts.
const passwordSpecials = "@$!%*#?&"

// ValidateRegistration checks a registration request against the signup
// schema: username required, valid email required, password of at least eight
// characters containing a letter, a digit and a special character.
func ValidateRegistration(req *RegisterRequest) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "Username is required"
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs["email"] = "Email is required"
	} else if !validEmail(email) {
		errs["email"] = "Enter a valid email"
	}

	if req.Password == "" {
		errs["password"] = "Please enter your password"
	} else if !validPassword(req.Password) {
		errs["password"] = "Must contain eight characters, one letter, one number and one special character"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func validPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var letter, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			// characters outside the schema's alphabet invalidate the password
			return false
		}
	}
	return letter && digit && special
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to register a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to register a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrCannotFollowSelf   = errors.New("you can't follow yourself")
	ErrCannotUnfollowSelf = errors.New("you can't unfollow yourself")
	ErrAlreadyFollowing   = errors.New("you already follow this user")
	ErrNotFollowing       = errors.New("you don't follow this user")

	ErrInvalidEditAction = errors.New("invalid edit action")

	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)
