package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// Error roots. Every service error wraps exactly one of them; ErrPermissionDenied is
// itself an ErrInvalidRequest.
var (
	ErrUnauthenticated  = errors.New("invalid or missing session token")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrPermissionDenied = fmt.Errorf("%w: permission denied", ErrInvalidRequest)
)

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidRequest, msg) }
func forbidden(msg string) error { return fmt.Errorf("%w: %s", ErrPermissionDenied, msg) }

// Messages
var (
	ErrInvalidMessageLength = invalid("message must be between 1 and 1000 characters")
	ErrMessageTooLong       = invalid("message must be at most 1000 characters")
	ErrMessageNotFound      = invalid("message not found")
	ErrInvalidMessageID     = invalid("message id must be a non-negative integer")
	ErrAlreadyPinned        = invalid("message is already pinned")
	ErrNotPinned            = invalid("message is not pinned")
	ErrInvalidReact         = invalid("invalid react id")
	ErrAlreadyReacted       = invalid("user already reacted to this message")
	ErrNotReacted           = invalid("user has not reacted to this message")
	ErrInvalidShareTarget   = invalid("exactly one of channel_id and dm_id must be given")
	ErrInvalidQuery         = invalid("query must be between 1 and 1000 characters")
	ErrTimeInPast           = invalid("time_sent is in the past")
	ErrInvalidRange         = invalid("start is greater than the number of messages")
	ErrNotMessageEditor     = forbidden("user cannot modify this message")
	ErrNotMessageModerator  = forbidden("user cannot pin or unpin messages here")
)

// Containers
var (
	ErrChannelNotFound       = invalid("channel not found")
	ErrDmNotFound            = invalid("dm not found")
	ErrNotMember             = forbidden("user is not a member")
	ErrAlreadyMember         = invalid("user is already a member")
	ErrInvalidChannelName    = invalid("channel name must be between 1 and 20 characters")
	ErrPrivateChannel        = forbidden("channel is private")
	ErrNotChannelOwner       = forbidden("user does not have owner permissions")
	ErrAlreadyOwner          = invalid("user is already an owner")
	ErrNotOwner              = invalid("user is not an owner")
	ErrOnlyOwner             = invalid("user is the only owner")
	ErrInvalidDmMembers      = invalid("dm members must be distinct existing users")
	ErrNotDmCreator          = forbidden("only the creator can remove a dm")
	ErrStandupActive         = invalid("a standup is already active")
	ErrStandupNotActive      = invalid("no standup is active")
	ErrInvalidStandupLength  = invalid("standup length cannot be negative")
	ErrStandupStarterLeaving = invalid("the standup starter cannot leave during a standup")
)

// Users and auth
var (
	ErrInvalidEmail       = invalid("email is not valid")
	ErrEmailTaken         = invalid("email is already in use")
	ErrInvalidName        = invalid("names must be between 1 and 50 characters")
	ErrPasswordTooShort   = invalid("password must be at least 6 characters")
	ErrInvalidCredentials = invalid("invalid email or password")
	ErrInvalidResetCode   = invalid("invalid reset code")
	ErrInvalidHandle      = invalid("handle must be 3 to 20 alphanumeric characters")
	ErrHandleTaken        = invalid("handle is already in use")
	ErrUserNotFound       = invalid("user not found")
	ErrInvalidPermission  = invalid("permission id must be 1 or 2")
	ErrPermissionSame     = invalid("user already has this permission")
	ErrOnlyGlobalOwner    = invalid("user is the only global owner")
	ErrNotGlobalOwner     = forbidden("user is not a global owner")
	ErrNotJPEG            = invalid("image must be a jpg or jpeg")
	ErrInvalidCrop        = invalid("crop box must lie inside the image with end after start")
	ErrInvalidImage       = invalid("image url could not be loaded")
	ErrPhotosDisabled     = invalid("profile photos are not enabled")
	ErrFailedToHash       = errors.New("failed to hash secret")
)

// authenticate resolves a token to its user. Caller holds the store lock.
func authenticate(st *store.Store, token string) (*models.User, error) {
	user := st.ResolveSession(token)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// paginate wraps store.Paginate so range errors carry the request taxonomy.
func paginate(messages []*models.Message, start, viewerID int) (store.Page, error) {
	page, err := store.Paginate(messages, start, viewerID)
	if errors.Is(err, store.ErrInvalidRange) {
		return store.Page{}, fmt.Errorf("%w (start %d, total %d)", ErrInvalidRange, start, len(messages))
	}
	return page, err
}
