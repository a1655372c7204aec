package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
)

func TestChannelService_CreateAndList(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")

	general := env.createChannel(t, alice.Token, "general", true)
	secret := env.createChannel(t, bob.Token, "secret", false)
	assert.Equal(t, 0, general)
	assert.Equal(t, 1, secret)

	_, err := env.channels.Create(CreateChannelInput{Token: alice.Token, Name: "", IsPublic: true})
	assert.ErrorIs(t, err, ErrInvalidChannelName)
	_, err = env.channels.Create(CreateChannelInput{Token: alice.Token, Name: "abcdefghijklmnopqrstu", IsPublic: true})
	assert.ErrorIs(t, err, ErrInvalidChannelName)
	_, err = env.channels.Create(CreateChannelInput{Token: "bogus", Name: "x", IsPublic: true})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	mine, err := env.channels.List(alice.Token)
	require.NoError(t, err)
	assert.Equal(t, []dto.ChannelDTO{{ChannelID: general, Name: "general"}}, mine)

	all, err := env.channels.ListAll(alice.Token)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChannelService_JoinAndDetails(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	carol := env.register(t, "Carol")

	public := env.createChannel(t, bob.Token, "public", true)
	private := env.createChannel(t, bob.Token, "private", false)

	require.NoError(t, env.channels.Join(carol.Token, public))
	assert.ErrorIs(t, env.channels.Join(carol.Token, public), ErrAlreadyMember)

	err := env.channels.Join(carol.Token, private)
	assert.ErrorIs(t, err, ErrPrivateChannel)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	require.NoError(t, env.channels.Join(alice.Token, private), "global owners may join private channels")

	assert.ErrorIs(t, env.channels.Join(carol.Token, 99), ErrChannelNotFound)

	details, err := env.channels.Details(carol.Token, public)
	require.NoError(t, err)
	assert.Equal(t, "public", details.Name)
	assert.True(t, details.IsPublic)
	require.Len(t, details.OwnerMembers, 1)
	assert.Equal(t, "bobsmith", details.OwnerMembers[0].Handle)
	assert.Len(t, details.AllMembers, 2)

	_, err = env.channels.Details(carol.Token, private)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestChannelService_InviteNotifies(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	carol := env.register(t, "Carol")
	ch := env.createChannel(t, alice.Token, "general", false)

	require.NoError(t, env.channels.Invite(alice.Token, ch, bob.AuthUserID))
	assert.ErrorIs(t, env.channels.Invite(alice.Token, ch, bob.AuthUserID), ErrAlreadyMember)
	assert.ErrorIs(t, env.channels.Invite(alice.Token, ch, 42), ErrUserNotFound)
	assert.ErrorIs(t, env.channels.Invite(carol.Token, ch, carol.AuthUserID), ErrNotMember)

	notes, err := env.notifications.List(bob.Token)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, ch, notes[0].ChannelID)
	assert.Equal(t, -1, notes[0].DmID)
	assert.Equal(t, "alicesmith added you to general", notes[0].NotificationMessage)
}

func TestChannelService_Leave(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	ch := env.createChannel(t, alice.Token, "general", true)
	require.NoError(t, env.channels.Join(bob.Token, ch))
	require.NoError(t, env.channels.AddOwner(alice.Token, ch, bob.AuthUserID))

	_, err := env.standups.Start(bob.Token, ch, 60)
	require.NoError(t, err)
	assert.ErrorIs(t, env.channels.Leave(bob.Token, ch), ErrStandupStarterLeaving)

	env.advance(time.Minute)
	require.NoError(t, env.channels.Leave(bob.Token, ch))
	assert.ErrorIs(t, env.channels.Leave(bob.Token, ch), ErrNotMember)

	details, err := env.channels.Details(alice.Token, ch)
	require.NoError(t, err)
	assert.Len(t, details.AllMembers, 1)
	assert.Len(t, details.OwnerMembers, 1, "leaving drops owner status")

	_, err = env.channels.Messages(bob.Token, ch, 0)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestChannelService_Owners(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	carol := env.register(t, "Carol")
	ch := env.createChannel(t, bob.Token, "general", true)
	require.NoError(t, env.channels.Join(carol.Token, ch))

	assert.ErrorIs(t, env.channels.AddOwner(carol.Token, ch, carol.AuthUserID), ErrNotChannelOwner)
	assert.ErrorIs(t, env.channels.AddOwner(bob.Token, ch, alice.AuthUserID), ErrNotMember)
	assert.ErrorIs(t, env.channels.AddOwner(bob.Token, ch, bob.AuthUserID), ErrAlreadyOwner)
	assert.ErrorIs(t, env.channels.RemoveOwner(bob.Token, ch, bob.AuthUserID), ErrOnlyOwner)
	assert.ErrorIs(t, env.channels.RemoveOwner(bob.Token, ch, carol.AuthUserID), ErrNotOwner)

	// A global owner needs to be a member to act as channel owner.
	require.NoError(t, env.channels.Join(alice.Token, ch))
	require.NoError(t, env.channels.AddOwner(alice.Token, ch, carol.AuthUserID))
	require.NoError(t, env.channels.RemoveOwner(carol.Token, ch, bob.AuthUserID))

	details, err := env.channels.Details(alice.Token, ch)
	require.NoError(t, err)
	require.Len(t, details.OwnerMembers, 1)
	assert.Equal(t, carol.AuthUserID, details.OwnerMembers[0].ID)
}
