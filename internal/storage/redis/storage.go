package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Store is a Redis-backed implementation of the storage interface.
// Entities are JSON documents under typed keys; secondary indexes are
// SETs and LISTs of keys maintained alongside each write.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ storage.Store = (*Store)(nil)

func (s *Store) getJSON(ctx context.Context, key string, dest any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// User operations

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	pipe.Set(ctx, emailIndexKey(user.Email), string(user.ID), 0)
	pipe.SAdd(ctx, allUsersKey(), string(user.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

func (s *Store) SearchUsers(ctx context.Context, query string, exclude model.UserID, limit int) ([]*model.User, error) {
	users, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []*model.User
	for _, u := range users {
		if u.ID == exclude {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), needle) {
			matches = append(matches, u)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Username < matches[j].Username })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *Store) allUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, allUsersKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(model.UserID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var user model.User
		if err := json.Unmarshal([]byte(val.(string)), &user); err != nil {
			continue // Skip invalid data
		}
		users = append(users, &user)
	}
	return users, nil
}

// Game operations

func (s *Store) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.Set(ctx, slugIndexKey(game.Slug), string(game.ID), 0)
	pipe.SAdd(ctx, allGamesKey(), string(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, gameKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) GetGameBySlug(ctx context.Context, slug string) (*model.Game, error) {
	id, err := s.client.Get(ctx, slugIndexKey(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return s.GetGame(ctx, model.GameID(id))
}

func (s *Store) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.Del(ctx, slugIndexKey(game.Slug))
	pipe.SRem(ctx, allGamesKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) ListGames(ctx context.Context, filter storage.GameFilter) ([]*model.Game, int, error) {
	ids, err := s.client.SMembers(ctx, allGamesKey()).Result()
	if err != nil {
		return nil, 0, err
	}

	all := make([]*model.Game, 0, len(ids))
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = gameKey(model.GameID(id))
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, 0, err
		}
		for _, val := range values {
			if val == nil {
				continue
			}
			var game model.Game
			if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
				continue
			}
			all = append(all, &game)
		}
	}

	filtered := storage.FilterGames(all, filter)
	storage.SortGames(filtered, filter.Sort)
	total := len(filtered)
	return storage.PageGames(filtered, filter.Page, filter.PageSize), total, nil
}

// Purchase operations

func (s *Store) SavePurchase(ctx context.Context, purchase *model.Purchase) error {
	data, err := json.Marshal(purchase)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, purchaseKey(purchase.ID), data, 0)
	pipe.SAdd(ctx, userPurchasesKey(purchase.UserID), string(purchase.ID))
	if purchase.Status == model.PurchaseCompleted {
		pipe.Set(ctx, ownedIndexKey(purchase.UserID, purchase.GameID), string(purchase.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetCompletedPurchase(ctx context.Context, user model.UserID, game model.GameID) (*model.Purchase, error) {
	id, err := s.client.Get(ctx, ownedIndexKey(user, game)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPurchaseNotFound
		}
		return nil, err
	}

	var purchase model.Purchase
	if err := s.getJSON(ctx, purchaseKey(model.PurchaseID(id)), &purchase, model.ErrPurchaseNotFound); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (s *Store) ListUserPurchases(ctx context.Context, user model.UserID) ([]*model.Purchase, error) {
	ids, err := s.client.SMembers(ctx, userPurchasesKey(user)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Purchase{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = purchaseKey(model.PurchaseID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	purchases := make([]*model.Purchase, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var p model.Purchase
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			continue
		}
		purchases = append(purchases, &p)
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].CreatedAt.After(purchases[j].CreatedAt) })
	return purchases, nil
}

func (s *Store) RecordPurchase(ctx context.Context, purchase *model.Purchase, entry *model.LibraryEntry, buyer *model.User) error {
	purchaseData, err := json.Marshal(purchase)
	if err != nil {
		return err
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	buyerData, err := json.Marshal(buyer)
	if err != nil {
		return err
	}

	// One transactional pipeline: the completed purchase can never be
	// observed without its library entry and the pruned wishlist.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, purchaseKey(purchase.ID), purchaseData, 0)
	pipe.SAdd(ctx, userPurchasesKey(purchase.UserID), string(purchase.ID))
	pipe.Set(ctx, ownedIndexKey(purchase.UserID, purchase.GameID), string(purchase.ID), 0)
	pipe.Set(ctx, libraryKey(entry.UserID, entry.GameID), entryData, 0)
	pipe.SAdd(ctx, userLibraryKey(entry.UserID), libraryKey(entry.UserID, entry.GameID))
	pipe.Set(ctx, userKey(buyer.ID), buyerData, 0)
	_, err = pipe.Exec(ctx)
	return err
}

// Library operations

func (s *Store) SaveLibraryEntry(ctx context.Context, entry *model.LibraryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := libraryKey(entry.UserID, entry.GameID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, userLibraryKey(entry.UserID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetLibraryEntry(ctx context.Context, user model.UserID, game model.GameID) (*model.LibraryEntry, error) {
	var entry model.LibraryEntry
	if err := s.getJSON(ctx, libraryKey(user, game), &entry, model.ErrEntryNotFound); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) ListLibrary(ctx context.Context, user model.UserID) ([]*model.LibraryEntry, error) {
	keys, err := s.client.SMembers(ctx, userLibraryKey(user)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.LibraryEntry{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LibraryEntry, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var entry model.LibraryEntry
		if err := json.Unmarshal([]byte(val.(string)), &entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UpdatedAt.After(entries[j].UpdatedAt) })
	return entries, nil
}

// Chat operations

func (s *Store) SaveMessage(ctx context.Context, msg *model.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// Only append to the room list on first save; rewrites (read stamps,
	// soft deletes) must not duplicate the list entry.
	_, posErr := s.client.LPos(ctx, roomMessagesKey(msg.Room), string(msg.ID), redis.LPosArgs{}).Result()
	if posErr != nil && !errors.Is(posErr, redis.Nil) {
		return posErr
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, messageKey(msg.ID), data, 0)
	if errors.Is(posErr, redis.Nil) {
		pipe.RPush(ctx, roomMessagesKey(msg.Room), string(msg.ID))
		pipe.SAdd(ctx, userRoomsKey(msg.SenderID), string(msg.Room))
		pipe.SAdd(ctx, userRoomsKey(msg.ReceiverID), string(msg.Room))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetMessage(ctx context.Context, id model.MessageID) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := s.getJSON(ctx, messageKey(id), &msg, model.ErrMessageNotFound); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Store) roomMessages(ctx context.Context, room model.RoomID) ([]*model.ChatMessage, error) {
	ids, err := s.client.LRange(ctx, roomMessagesKey(room), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.ChatMessage{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = messageKey(model.MessageID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]*model.ChatMessage, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(val.(string)), &m); err != nil {
			continue
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

func (s *Store) ListRoomMessages(ctx context.Context, room model.RoomID, offset, limit int) ([]*model.ChatMessage, int, error) {
	all, err := s.roomMessages(ctx, room)
	if err != nil {
		return nil, 0, err
	}

	var live []*model.ChatMessage
	for _, m := range all {
		if !m.IsDeleted {
			live = append(live, m)
		}
	}
	// Stored oldest-first; callers expect newest-first
	newestFirst := make([]*model.ChatMessage, len(live))
	for i, m := range live {
		newestFirst[len(live)-1-i] = m
	}

	total := len(newestFirst)
	if offset >= len(newestFirst) {
		return []*model.ChatMessage{}, total, nil
	}
	newestFirst = newestFirst[offset:]
	if limit > 0 && len(newestFirst) > limit {
		newestFirst = newestFirst[:limit]
	}
	return newestFirst, total, nil
}

func (s *Store) RoomsForUser(ctx context.Context, user model.UserID) ([]model.RoomID, error) {
	members, err := s.client.SMembers(ctx, userRoomsKey(user)).Result()
	if err != nil {
		return nil, err
	}
	rooms := make([]model.RoomID, len(members))
	for i, m := range members {
		rooms[i] = model.RoomID(m)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	return rooms, nil
}

func (s *Store) MarkRoomRead(ctx context.Context, room model.RoomID, reader model.UserID, at time.Time) (int, error) {
	all, err := s.roomMessages(ctx, room)
	if err != nil {
		return 0, err
	}

	pipe := s.client.Pipeline()
	updated := 0
	for _, m := range all {
		if m.ReceiverID == reader && m.ReadAt == nil && !m.IsDeleted {
			ts := at
			m.ReadAt = &ts
			data, err := json.Marshal(m)
			if err != nil {
				return 0, err
			}
			pipe.Set(ctx, messageKey(m.ID), data, 0)
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *Store) UnreadCount(ctx context.Context, room model.RoomID, reader model.UserID) (int, error) {
	all, err := s.roomMessages(ctx, room)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range all {
		if m.ReceiverID == reader && m.ReadAt == nil && !m.IsDeleted {
			count++
		}
	}
	return count, nil
}

// Friend request operations

func (s *Store) SaveFriendRequest(ctx context.Context, req *model.FriendRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, friendRequestKey(req.ID), data, 0)
	pipe.Set(ctx, pairIndexKey(req.SenderID, req.ReceiverID), string(req.ID), 0)
	pipe.SAdd(ctx, userRequestsKey(req.SenderID), string(req.ID))
	pipe.SAdd(ctx, userRequestsKey(req.ReceiverID), string(req.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetFriendRequest(ctx context.Context, id model.RequestID) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := s.getJSON(ctx, friendRequestKey(id), &req, model.ErrRequestNotFound); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) FindRequestBetween(ctx context.Context, a, b model.UserID) (*model.FriendRequest, error) {
	id, err := s.client.Get(ctx, pairIndexKey(a, b)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRequestNotFound
		}
		return nil, err
	}
	return s.GetFriendRequest(ctx, model.RequestID(id))
}

func (s *Store) DeleteFriendRequest(ctx context.Context, id model.RequestID) error {
	req, err := s.GetFriendRequest(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRequestNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, friendRequestKey(id))
	pipe.Del(ctx, pairIndexKey(req.SenderID, req.ReceiverID))
	pipe.SRem(ctx, userRequestsKey(req.SenderID), string(id))
	pipe.SRem(ctx, userRequestsKey(req.ReceiverID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) ListRequestsForUser(ctx context.Context, user model.UserID) ([]*model.FriendRequest, error) {
	ids, err := s.client.SMembers(ctx, userRequestsKey(user)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.FriendRequest{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = friendRequestKey(model.RequestID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	reqs := make([]*model.FriendRequest, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var req model.FriendRequest
		if err := json.Unmarshal([]byte(val.(string)), &req); err != nil {
			continue
		}
		reqs = append(reqs, &req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

// Notification operations

func (s *Store) SaveNotification(ctx context.Context, n *model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, posErr := s.client.LPos(ctx, userNotificationsKey(n.UserID), string(n.ID), redis.LPosArgs{}).Result()
	isNew := errors.Is(posErr, redis.Nil)
	if posErr != nil && !isNew {
		return posErr
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, notificationKey(n.ID), data, 0)
	if isNew {
		pipe.RPush(ctx, userNotificationsKey(n.UserID), string(n.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetNotification(ctx context.Context, id model.NotificationID) (*model.Notification, error) {
	var n model.Notification
	if err := s.getJSON(ctx, notificationKey(id), &n, model.ErrNotificationNotFound); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id model.NotificationID) error {
	n, err := s.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, notificationKey(id))
	pipe.LRem(ctx, userNotificationsKey(n.UserID), 0, string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) userNotifications(ctx context.Context, user model.UserID) ([]*model.Notification, error) {
	ids, err := s.client.LRange(ctx, userNotificationsKey(user), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Notification{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = notificationKey(model.NotificationID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.Notification, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var n model.Notification
		if err := json.Unmarshal([]byte(val.(string)), &n); err != nil {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (s *Store) ListNotifications(ctx context.Context, user model.UserID, offset, limit int) ([]*model.Notification, int, int, error) {
	all, err := s.userNotifications(ctx, user)
	if err != nil {
		return nil, 0, 0, err
	}

	newestFirst := make([]*model.Notification, len(all))
	for i, n := range all {
		newestFirst[len(all)-1-i] = n
	}
	total := len(newestFirst)
	unread := 0
	for _, n := range newestFirst {
		if !n.Read {
			unread++
		}
	}
	if offset >= len(newestFirst) {
		return []*model.Notification{}, total, unread, nil
	}
	newestFirst = newestFirst[offset:]
	if limit > 0 && len(newestFirst) > limit {
		newestFirst = newestFirst[:limit]
	}
	return newestFirst, total, unread, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, user model.UserID) (int, error) {
	all, err := s.userNotifications(ctx, user)
	if err != nil {
		return 0, err
	}

	pipe := s.client.Pipeline()
	updated := 0
	for _, n := range all {
		if !n.Read {
			n.Read = true
			data, err := json.Marshal(n)
			if err != nil {
				return 0, err
			}
			pipe.Set(ctx, notificationKey(n.ID), data, 0)
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return updated, nil
}

// Review operations

func (s *Store) SaveReview(ctx context.Context, review *model.Review) error {
	data, err := json.Marshal(review)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, reviewKey(review.ID), data, 0)
	pipe.Set(ctx, reviewIndexKey(review.UserID, review.GameID), string(review.ID), 0)
	pipe.SAdd(ctx, gameReviewsKey(review.GameID), string(review.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetReview(ctx context.Context, id model.ReviewID) (*model.Review, error) {
	var review model.Review
	if err := s.getJSON(ctx, reviewKey(id), &review, model.ErrReviewNotFound); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Store) GetReviewByUserGame(ctx context.Context, user model.UserID, game model.GameID) (*model.Review, error) {
	id, err := s.client.Get(ctx, reviewIndexKey(user, game)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrReviewNotFound
		}
		return nil, err
	}
	return s.GetReview(ctx, model.ReviewID(id))
}

func (s *Store) DeleteReview(ctx context.Context, id model.ReviewID) error {
	review, err := s.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, reviewKey(id))
	pipe.Del(ctx, reviewIndexKey(review.UserID, review.GameID))
	pipe.SRem(ctx, gameReviewsKey(review.GameID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) ListGameReviews(ctx context.Context, game model.GameID, offset, limit int) ([]*model.Review, int, error) {
	all, err := s.ListAllGameReviews(ctx, game)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	if offset >= len(all) {
		return []*model.Review{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *Store) ListAllGameReviews(ctx context.Context, game model.GameID) ([]*model.Review, error) {
	ids, err := s.client.SMembers(ctx, gameReviewsKey(game)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Review{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = reviewKey(model.ReviewID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	reviews := make([]*model.Review, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var r model.Review
		if err := json.Unmarshal([]byte(val.(string)), &r); err != nil {
			continue
		}
		reviews = append(reviews, &r)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

// Achievement operations

func (s *Store) SaveAchievement(ctx context.Context, a *model.Achievement) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, achievementKey(a.ID), data, 0)
	pipe.SAdd(ctx, gameAchievementsKey(a.GameID), string(a.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetAchievement(ctx context.Context, id model.AchievementID) (*model.Achievement, error) {
	var a model.Achievement
	if err := s.getJSON(ctx, achievementKey(id), &a, model.ErrAchievementNotFound); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListGameAchievements(ctx context.Context, game model.GameID) ([]*model.Achievement, error) {
	ids, err := s.client.SMembers(ctx, gameAchievementsKey(game)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Achievement{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = achievementKey(model.AchievementID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.Achievement, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var a model.Achievement
		if err := json.Unmarshal([]byte(val.(string)), &a); err != nil {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) SaveUserAchievement(ctx context.Context, ua *model.UserAchievement) error {
	data, err := json.Marshal(ua)
	if err != nil {
		return err
	}

	key := unlockKey(ua.UserID, ua.AchievementID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, userUnlocksKey(ua.UserID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetUserAchievement(ctx context.Context, user model.UserID, achievement model.AchievementID) (*model.UserAchievement, error) {
	var ua model.UserAchievement
	if err := s.getJSON(ctx, unlockKey(user, achievement), &ua, model.ErrAchievementNotFound); err != nil {
		return nil, err
	}
	return &ua, nil
}

func (s *Store) ListUserAchievements(ctx context.Context, user model.UserID) ([]*model.UserAchievement, error) {
	keys, err := s.client.SMembers(ctx, userUnlocksKey(user)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.UserAchievement{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.UserAchievement, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var ua model.UserAchievement
		if err := json.Unmarshal([]byte(val.(string)), &ua); err != nil {
			continue
		}
		out = append(out, &ua)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnlockedAt.After(out[j].UnlockedAt) })
	return out, nil
}
