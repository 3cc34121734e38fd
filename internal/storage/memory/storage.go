package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Store is an in-memory implementation of the storage interface
type Store struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	emailIndex    map[string]model.UserID

	games     map[model.GameID]*model.Game
	slugIndex map[string]model.GameID

	purchases map[model.PurchaseID]*model.Purchase
	library   map[libraryKey]*model.LibraryEntry

	messages  map[model.RoomID][]*model.ChatMessage
	userRooms map[model.UserID]map[model.RoomID]struct{}

	friendRequests map[model.RequestID]*model.FriendRequest

	notifications map[model.UserID][]*model.Notification

	reviews          map[model.ReviewID]*model.Review
	reviewIndex      map[reviewKey]model.ReviewID
	achievements     map[model.AchievementID]*model.Achievement
	userAchievements map[unlockKey]*model.UserAchievement
}

type libraryKey struct {
	user model.UserID
	game model.GameID
}

type reviewKey struct {
	user model.UserID
	game model.GameID
}

type unlockKey struct {
	user        model.UserID
	achievement model.AchievementID
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		users:            make(map[model.UserID]*model.User),
		usernameIndex:    make(map[string]model.UserID),
		emailIndex:       make(map[string]model.UserID),
		games:            make(map[model.GameID]*model.Game),
		slugIndex:        make(map[string]model.GameID),
		purchases:        make(map[model.PurchaseID]*model.Purchase),
		library:          make(map[libraryKey]*model.LibraryEntry),
		messages:         make(map[model.RoomID][]*model.ChatMessage),
		userRooms:        make(map[model.UserID]map[model.RoomID]struct{}),
		friendRequests:   make(map[model.RequestID]*model.FriendRequest),
		notifications:    make(map[model.UserID][]*model.Notification),
		reviews:          make(map[model.ReviewID]*model.Review),
		reviewIndex:      make(map[reviewKey]model.ReviewID),
		achievements:     make(map[model.AchievementID]*model.Achievement),
		userAchievements: make(map[unlockKey]*model.UserAchievement),
	}
}

// Ensure Store implements the interface
var _ storage.Store = (*Store)(nil)

// User operations

func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.users[user.ID]; ok {
		delete(s.usernameIndex, strings.ToLower(old.Username))
		delete(s.emailIndex, strings.ToLower(old.Email))
	}
	s.users[user.ID] = user
	s.usernameIndex[strings.ToLower(user.Username)] = user.ID
	s.emailIndex[strings.ToLower(user.Email)] = user.ID
	return nil
}

func (s *Store) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[strings.ToLower(username)]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) SearchUsers(ctx context.Context, query string, exclude model.UserID, limit int) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var matches []*model.User
	for _, u := range s.users {
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

// Game operations

func (s *Store) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.games[game.ID]; ok && old.Slug != game.Slug {
		delete(s.slugIndex, old.Slug)
	}
	s.games[game.ID] = game
	s.slugIndex[game.Slug] = game.ID
	return nil
}

func (s *Store) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Store) GetGameBySlug(ctx context.Context, slug string) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.slugIndex[slug]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return s.games[id], nil
}

func (s *Store) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.games[id]; ok {
		delete(s.slugIndex, game.Slug)
		delete(s.games, id)
	}
	return nil
}

func (s *Store) ListGames(ctx context.Context, filter storage.GameFilter) ([]*model.Game, int, error) {
	s.mu.RLock()
	all := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		all = append(all, g)
	}
	s.mu.RUnlock()

	filtered := storage.FilterGames(all, filter)
	storage.SortGames(filtered, filter.Sort)
	total := len(filtered)
	return storage.PageGames(filtered, filter.Page, filter.PageSize), total, nil
}

// Purchase operations

func (s *Store) SavePurchase(ctx context.Context, purchase *model.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[purchase.ID] = purchase
	return nil
}

func (s *Store) GetCompletedPurchase(ctx context.Context, user model.UserID, game model.GameID) (*model.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.purchases {
		if p.UserID == user && p.GameID == game && p.Status == model.PurchaseCompleted {
			return p, nil
		}
	}
	return nil, model.ErrPurchaseNotFound
}

func (s *Store) ListUserPurchases(ctx context.Context, user model.UserID) ([]*model.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Purchase
	for _, p := range s.purchases {
		if p.UserID == user {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) RecordPurchase(ctx context.Context, purchase *model.Purchase, entry *model.LibraryEntry, buyer *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[purchase.ID] = purchase
	key := libraryKey{entry.UserID, entry.GameID}
	if existing, ok := s.library[key]; ok {
		existing.UpdatedAt = entry.UpdatedAt
	} else {
		s.library[key] = entry
	}
	s.users[buyer.ID] = buyer
	return nil
}

// Library operations

func (s *Store) SaveLibraryEntry(ctx context.Context, entry *model.LibraryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.library[libraryKey{entry.UserID, entry.GameID}] = entry
	return nil
}

func (s *Store) GetLibraryEntry(ctx context.Context, user model.UserID, game model.GameID) (*model.LibraryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.library[libraryKey{user, game}]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Store) ListLibrary(ctx context.Context, user model.UserID) ([]*model.LibraryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.LibraryEntry
	for key, entry := range s.library {
		if key.user == user {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Chat operations

func (s *Store) SaveMessage(ctx context.Context, msg *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.messages[msg.Room] {
		if existing.ID == msg.ID {
			s.messages[msg.Room][i] = msg
			return nil
		}
	}
	s.messages[msg.Room] = append(s.messages[msg.Room], msg)
	s.addUserRoom(msg.SenderID, msg.Room)
	s.addUserRoom(msg.ReceiverID, msg.Room)
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id model.MessageID) (*model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msgs := range s.messages {
		for _, m := range msgs {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return nil, model.ErrMessageNotFound
}

func (s *Store) addUserRoom(user model.UserID, room model.RoomID) {
	rooms, ok := s.userRooms[user]
	if !ok {
		rooms = make(map[model.RoomID]struct{})
		s.userRooms[user] = rooms
	}
	rooms[room] = struct{}{}
}

func (s *Store) ListRoomMessages(ctx context.Context, room model.RoomID, offset, limit int) ([]*model.ChatMessage, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var live []*model.ChatMessage
	for _, m := range s.messages[room] {
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
	return pageMessages(newestFirst, offset, limit), total, nil
}

func pageMessages(msgs []*model.ChatMessage, offset, limit int) []*model.ChatMessage {
	if offset >= len(msgs) {
		return []*model.ChatMessage{}
	}
	msgs = msgs[offset:]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs
}

func (s *Store) RoomsForUser(ctx context.Context, user model.UserID) ([]model.RoomID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]model.RoomID, 0, len(s.userRooms[user]))
	for r := range s.userRooms[user] {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	return rooms, nil
}

func (s *Store) MarkRoomRead(ctx context.Context, room model.RoomID, reader model.UserID, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, m := range s.messages[room] {
		if m.ReceiverID == reader && m.ReadAt == nil && !m.IsDeleted {
			ts := at
			m.ReadAt = &ts
			updated++
		}
	}
	return updated, nil
}

func (s *Store) UnreadCount(ctx context.Context, room model.RoomID, reader model.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, m := range s.messages[room] {
		if m.ReceiverID == reader && m.ReadAt == nil && !m.IsDeleted {
			count++
		}
	}
	return count, nil
}

// Friend request operations

func (s *Store) SaveFriendRequest(ctx context.Context, req *model.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendRequests[req.ID] = req
	return nil
}

func (s *Store) GetFriendRequest(ctx context.Context, id model.RequestID) (*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.friendRequests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	return req, nil
}

func (s *Store) FindRequestBetween(ctx context.Context, a, b model.UserID) (*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, req := range s.friendRequests {
		if req.Involves(a, b) {
			return req, nil
		}
	}
	return nil, model.ErrRequestNotFound
}

func (s *Store) DeleteFriendRequest(ctx context.Context, id model.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.friendRequests, id)
	return nil
}

func (s *Store) ListRequestsForUser(ctx context.Context, user model.UserID) ([]*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.FriendRequest
	for _, req := range s.friendRequests {
		if req.SenderID == user || req.ReceiverID == user {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Notification operations

func (s *Store) SaveNotification(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.notifications[n.UserID] {
		if existing.ID == n.ID {
			s.notifications[n.UserID][i] = n
			return nil
		}
	}
	s.notifications[n.UserID] = append(s.notifications[n.UserID], n)
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id model.NotificationID) (*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.notifications {
		for _, n := range list {
			if n.ID == id {
				return n, nil
			}
		}
	}
	return nil, model.ErrNotificationNotFound
}

func (s *Store) DeleteNotification(ctx context.Context, id model.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for user, list := range s.notifications {
		for i, n := range list {
			if n.ID == id {
				s.notifications[user] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, user model.UserID, offset, limit int) ([]*model.Notification, int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.notifications[user]
	newestFirst := make([]*model.Notification, len(list))
	for i, n := range list {
		newestFirst[len(list)-1-i] = n
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
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, n := range s.notifications[user] {
		if !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

// Review operations

func (s *Store) SaveReview(ctx context.Context, review *model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[review.ID] = review
	s.reviewIndex[reviewKey{review.UserID, review.GameID}] = review.ID
	return nil
}

func (s *Store) GetReview(ctx context.Context, id model.ReviewID) (*model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, ok := s.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	return review, nil
}

func (s *Store) GetReviewByUserGame(ctx context.Context, user model.UserID, game model.GameID) (*model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.reviewIndex[reviewKey{user, game}]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	return s.reviews[id], nil
}

func (s *Store) DeleteReview(ctx context.Context, id model.ReviewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review, ok := s.reviews[id]; ok {
		delete(s.reviewIndex, reviewKey{review.UserID, review.GameID})
		delete(s.reviews, id)
	}
	return nil
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
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Review
	for _, r := range s.reviews {
		if r.GameID == game {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Achievement operations

func (s *Store) SaveAchievement(ctx context.Context, a *model.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievements[a.ID] = a
	return nil
}

func (s *Store) GetAchievement(ctx context.Context, id model.AchievementID) (*model.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.achievements[id]
	if !ok {
		return nil, model.ErrAchievementNotFound
	}
	return a, nil
}

func (s *Store) ListGameAchievements(ctx context.Context, game model.GameID) ([]*model.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Achievement
	for _, a := range s.achievements {
		if a.GameID == game {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) SaveUserAchievement(ctx context.Context, ua *model.UserAchievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userAchievements[unlockKey{ua.UserID, ua.AchievementID}] = ua
	return nil
}

func (s *Store) GetUserAchievement(ctx context.Context, user model.UserID, achievement model.AchievementID) (*model.UserAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ua, ok := s.userAchievements[unlockKey{user, achievement}]
	if !ok {
		return nil, model.ErrAchievementNotFound
	}
	return ua, nil
}

func (s *Store) ListUserAchievements(ctx context.Context, user model.UserID) ([]*model.UserAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.UserAchievement
	for key, ua := range s.userAchievements {
		if key.user == user {
			out = append(out, ua)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnlockedAt.After(out[j].UnlockedAt) })
	return out, nil
}
