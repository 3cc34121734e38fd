package redis

import (
	"fmt"
	"strings"

	"github.com/jfmcewan/gamehub/internal/model"
)

// Key prefix for all storefront data
const keyPrefix = "gamehub"

// Key generation functions for each entity type

func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, strings.ToLower(username))
}

func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}

// allUsersKey is the SET of all user IDs (needed for substring search)
func allUsersKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

func slugIndexKey(slug string) string {
	return fmt.Sprintf("%s:idx:slug:%s", keyPrefix, slug)
}

// allGamesKey is the SET of all game IDs
func allGamesKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

func purchaseKey(id model.PurchaseID) string {
	return fmt.Sprintf("%s:purchase:%s", keyPrefix, id)
}

// ownedIndexKey maps (user, game) to the ID of the completed purchase
func ownedIndexKey(user model.UserID, game model.GameID) string {
	return fmt.Sprintf("%s:idx:owned:%s:%s", keyPrefix, user, game)
}

// userPurchasesKey is the SET of a user's purchase IDs
func userPurchasesKey(user model.UserID) string {
	return fmt.Sprintf("%s:idx:purchases:%s", keyPrefix, user)
}

func libraryKey(user model.UserID, game model.GameID) string {
	return fmt.Sprintf("%s:library:%s:%s", keyPrefix, user, game)
}

// userLibraryKey is the SET of library entry keys for a user
func userLibraryKey(user model.UserID) string {
	return fmt.Sprintf("%s:idx:library:%s", keyPrefix, user)
}

func messageKey(id model.MessageID) string {
	return fmt.Sprintf("%s:message:%s", keyPrefix, id)
}

// roomMessagesKey is the LIST of message IDs for a room, in append order
func roomMessagesKey(room model.RoomID) string {
	return fmt.Sprintf("%s:idx:room_msgs:%s", keyPrefix, room)
}

// userRoomsKey is the SET of rooms a user has messages in
func userRoomsKey(user model.UserID) string {
	return fmt.Sprintf("%s:idx:rooms:%s", keyPrefix, user)
}

func friendRequestKey(id model.RequestID) string {
	return fmt.Sprintf("%s:friendreq:%s", keyPrefix, id)
}

// pairIndexKey maps an unordered user pair to its friend request ID
func pairIndexKey(a, b model.UserID) string {
	first, second := string(a), string(b)
	if second < first {
		first, second = second, first
	}
	return fmt.Sprintf("%s:idx:pair:%s:%s", keyPrefix, first, second)
}

// userRequestsKey is the SET of friend request IDs involving a user
func userRequestsKey(user model.UserID) string {
	return fmt.Sprintf("%s:idx:friendreqs:%s", keyPrefix, user)
}

func notificationKey(id model.NotificationID) string {
	return fmt.Sprintf("%s:notification:%s", keyPrefix, id)
}

// userNotificationsKey is the LIST of a user's notification IDs, in append order
func userNotificationsKey(user model.UserID) string {
	return fmt.Sprintf("%s:idx:notifications:%s", keyPrefix, user)
}

func reviewKey(id model.ReviewID) string {
	return fmt.Sprintf("%s:review:%s", keyPrefix, id)
}

// reviewIndexKey maps (user, game) to a review ID
func reviewIndexKey(user model.UserID, game model.GameID) string {
	return fmt.Sprintf("%s:idx:review:%s:%s", keyPrefix, user, game)
}

// gameReviewsKey is the SET of review IDs for a game
func gameReviewsKey(game model.GameID) string {
	return fmt.Sprintf("%s:idx:reviews:%s", keyPrefix, game)
}

func achievementKey(id model.AchievementID) string {
	return fmt.Sprintf("%s:achievement:%s", keyPrefix, id)
}

// gameAchievementsKey is the SET of achievement IDs for a game
func gameAchievementsKey(game model.GameID) string {
	return fmt.Sprintf("%s:idx:achievements:%s", keyPrefix, game)
}

func unlockKey(user model.UserID, achievement model.AchievementID) string {
	return fmt.Sprintf("%s:unlock:%s:%s", keyPrefix, user, achievement)
}

// userUnlocksKey is the SET of unlock keys for a user
func userUnlocksKey(user model.UserID) string {
	return fmt.Sprintf("%s:idx:unlocks:%s", keyPrefix, user)
}
