package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case []Game:
		o.printGames(v)
	case []LibraryItem:
		o.printLibrary(v)
	case NotificationList:
		o.printNotifications(v)
	case MessageHistory:
		o.printMessageHistory(v)
	case AssistantReply:
		o.printAssistantReply(v)
	case []User:
		o.printUsers(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	CurrentGame   string `json:"current_game,omitempty"`
	Level         int    `json:"level"`
	XP            int    `json:"xp"`
	TotalPlaytime int    `json:"total_playtime"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Game response type
type Game struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Price           int      `json:"price"`
	DiscountPercent int      `json:"discount_percent"`
	Genres          []string `json:"genres"`
	AverageRating   float64  `json:"average_rating"`
	TotalReviews    int      `json:"total_reviews"`
	TotalDownloads  int      `json:"total_downloads"`
	IsPublished     bool     `json:"is_published"`
}

// GameList response type
type GameList struct {
	Games []Game `json:"games"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
}

// LibraryItem response type
type LibraryItem struct {
	Entry struct {
		GameID     string `json:"game_id"`
		Playtime   int    `json:"playtime"`
		IsFavorite bool   `json:"is_favorite"`
		Installed  bool   `json:"installed"`
	} `json:"entry"`
	Game *Game `json:"game"`
}

// Notification response type
type Notification struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

// NotificationList response type
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}

// AssistantReply response type
type AssistantReply struct {
	Intent      string `json:"intent"`
	Message     string `json:"message"`
	Suggestions []Game `json:"suggestions,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
	if u.Email != "" {
		fmt.Printf("Email: %s\n", u.Email)
	}
	fmt.Printf("Role: %s\n", u.Role)
	fmt.Printf("Level: %d (%d XP)\n", u.Level, u.XP)
	status := u.Status
	if u.CurrentGame != "" {
		status += " - playing " + u.CurrentGame
	}
	fmt.Printf("Status: %s\n", status)
}

func (o *Output) printUsers(users []User) {
	for _, u := range users {
		fmt.Printf("  - %s (%s) lvl %d, %s\n", u.Username, u.ID, u.Level, u.Status)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Title, g.ID)
	fmt.Printf("Slug: %s\n", g.Slug)
	fmt.Printf("Price: %s\n", formatPrice(g.Price, g.DiscountPercent))
	if len(g.Genres) > 0 {
		fmt.Printf("Genres: %s\n", strings.Join(g.Genres, ", "))
	}
	fmt.Printf("Rating: %.1f (%d reviews)\n", g.AverageRating, g.TotalReviews)
	fmt.Printf("Downloads: %d\n", g.TotalDownloads)
	if !g.IsPublished {
		fmt.Println("Unpublished")
	}
}

func (o *Output) printGames(games []Game) {
	for _, g := range games {
		fmt.Printf("  - %s (%s) %s, %.1f stars\n", g.Title, g.ID, formatPrice(g.Price, g.DiscountPercent), g.AverageRating)
	}
}

func (o *Output) printGameList(l GameList) {
	fmt.Printf("Games (%d total, page %d):\n", l.Total, l.Page)
	o.printGames(l.Games)
}

func (o *Output) printLibrary(items []LibraryItem) {
	fmt.Printf("Library (%d):\n", len(items))
	for _, item := range items {
		title := item.Entry.GameID
		if item.Game != nil {
			title = item.Game.Title
		}
		marks := ""
		if item.Entry.IsFavorite {
			marks += " [fav]"
		}
		if item.Entry.Installed {
			marks += " [installed]"
		}
		fmt.Printf("  - %s, %d min played%s\n", title, item.Entry.Playtime, marks)
	}
}

func (o *Output) printNotifications(l NotificationList) {
	fmt.Printf("Notifications (%d total, %d unread):\n", l.Total, l.Unread)
	for _, n := range l.Notifications {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Printf("  %s [%s] %s: %s\n", mark, n.Kind, n.Title, n.Message)
	}
}

func (o *Output) printMessageHistory(h MessageHistory) {
	fmt.Printf("Messages (%d total):\n", h.Total)
	for _, m := range h.Messages {
		fmt.Printf("  [%s] %s: %s\n", m.CreatedAt, m.SenderID, m.Content)
	}
}

func (o *Output) printAssistantReply(r AssistantReply) {
	fmt.Println(r.Message)
	if len(r.Suggestions) > 0 {
		fmt.Println()
		o.printGames(r.Suggestions)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func formatPrice(price, discount int) string {
	if price == 0 {
		return "free"
	}
	if discount > 0 {
		final := price * (100 - discount) / 100
		return fmt.Sprintf("%d (-%d%% from %d)", final, discount, price)
	}
	return fmt.Sprintf("%d", price)
}
