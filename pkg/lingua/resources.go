package lingua

import (
	"time"

	"github.com/fivetwenty-io/lingua/internal/constants"
)

// PracticeMode names the kind of exercise a session ran.
type PracticeMode string

const (
	ModeVideoRepeat PracticeMode = "video_repeat"
	ModePhrase      PracticeMode = "phrase"
	ModeShadowing   PracticeMode = "shadowing"
)

// ListResponse is the envelope of every paginated endpoint.
type ListResponse[T any] struct {
	Items   []T `json:"items"    yaml:"items"`
	Total   int `json:"total"    yaml:"total"`
	Page    int `json:"page"     yaml:"page"`
	PerPage int `json:"per_page" yaml:"per_page"`
}

// HasMore reports whether pages remain after this one.
func (l *ListResponse[T]) HasMore() bool {
	if l.PerPage <= 0 {
		return false
	}

	return l.Page*l.PerPage < l.Total
}

// ListParams are the common list filters.
type ListParams struct {
	Page     int
	PerPage  int
	Search   string
	Language string
	Level    string
}

// ToQuery renders the set fields in a stable order.
func (p *ListParams) ToQuery() Query {
	if p == nil {
		return nil
	}

	var query Query

	if p.Page > 0 {
		query = query.Add("page", p.Page)
	}

	if p.PerPage > 0 {
		query = query.Add("per_page", p.PerPage)
	}

	if p.Search != "" {
		query = query.Add("search", p.Search)
	}

	if p.Language != "" {
		query = query.Add("language", p.Language)
	}

	if p.Level != "" {
		query = query.Add("level", p.Level)
	}

	return query
}

// Video is a clip used for repeat and shadowing practice.
type Video struct {
	ID              string    `json:"id"               yaml:"id"`
	Title           string    `json:"title"            yaml:"title"`
	Language        string    `json:"language"         yaml:"language"`
	Level           string    `json:"level,omitempty"  yaml:"level,omitempty"`
	DurationSeconds int       `json:"duration_seconds" yaml:"duration_seconds"`
	URL             string    `json:"url"              yaml:"url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"       yaml:"created_at"`
}

// Profile is the signed-in user's profile.
type Profile struct {
	ID               string    `json:"id"                 yaml:"id"`
	Email            string    `json:"email"              yaml:"email"`
	DisplayName      string    `json:"display_name"       yaml:"display_name"`
	NativeLanguage   string    `json:"native_language"    yaml:"native_language"`
	TargetLanguages  []string  `json:"target_languages"   yaml:"target_languages"`
	DailyGoalMinutes int       `json:"daily_goal_minutes" yaml:"daily_goal_minutes"`
	Timezone         string    `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	CreatedAt        time.Time `json:"created_at"         yaml:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"         yaml:"updated_at"`
}

// ProfileUpdate carries only the fields being changed.
type ProfileUpdate struct {
	DisplayName      *string  `json:"display_name,omitempty"`
	NativeLanguage   *string  `json:"native_language,omitempty"`
	TargetLanguages  []string `json:"target_languages,omitempty"`
	DailyGoalMinutes *int     `json:"daily_goal_minutes,omitempty"`
	Timezone         *string  `json:"timezone,omitempty"`
}

// PracticeSession is one practice run.
type PracticeSession struct {
	ID              string       `json:"id"                     yaml:"id"`
	Mode            PracticeMode `json:"mode"                   yaml:"mode"`
	VideoID         string       `json:"video_id,omitempty"     yaml:"video_id,omitempty"`
	PhraseIDs       []string     `json:"phrase_ids,omitempty"   yaml:"phrase_ids,omitempty"`
	StartedAt       time.Time    `json:"started_at"             yaml:"started_at"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	DurationSeconds int          `json:"duration_seconds"       yaml:"duration_seconds"`
	RepetitionCount int          `json:"repetition_count"       yaml:"repetition_count"`
	Score           *float64     `json:"score,omitempty"        yaml:"score,omitempty"`
}

// PracticeSessionCreate starts a session.
type PracticeSessionCreate struct {
	Mode      PracticeMode `json:"mode"`
	VideoID   string       `json:"video_id,omitempty"`
	PhraseIDs []string     `json:"phrase_ids,omitempty"`
}

// SessionResult completes a session.
type SessionResult struct {
	DurationSeconds int      `json:"duration_seconds"`
	RepetitionCount int      `json:"repetition_count"`
	Score           *float64 `json:"score,omitempty"`
}

// SessionFilter narrows a session listing, typically to a calendar range.
type SessionFilter struct {
	From    time.Time
	To      time.Time
	Mode    PracticeMode
	Page    int
	PerPage int
}

// ToQuery renders the set fields; dates use YYYY-MM-DD.
func (f *SessionFilter) ToQuery() Query {
	if f == nil {
		return nil
	}

	var query Query

	if !f.From.IsZero() {
		query = query.Add("from", f.From.Format(constants.DateLayout))
	}

	if !f.To.IsZero() {
		query = query.Add("to", f.To.Format(constants.DateLayout))
	}

	if f.Mode != "" {
		query = query.Add("mode", string(f.Mode))
	}

	if f.Page > 0 {
		query = query.Add("page", f.Page)
	}

	if f.PerPage > 0 {
		query = query.Add("per_page", f.PerPage)
	}

	return query
}

// DayProgress is one calendar cell.
type DayProgress struct {
	Date     string `json:"date"     yaml:"date"`
	Minutes  int    `json:"minutes"  yaml:"minutes"`
	Sessions int    `json:"sessions" yaml:"sessions"`
	GoalMet  bool   `json:"goal_met" yaml:"goal_met"`
}

// Progress summarises practice over a date range.
type Progress struct {
	From         string        `json:"from"          yaml:"from"`
	To           string        `json:"to"            yaml:"to"`
	Days         []DayProgress `json:"days"          yaml:"days"`
	StreakDays   int           `json:"streak_days"   yaml:"streak_days"`
	TotalMinutes int           `json:"total_minutes" yaml:"total_minutes"`
}

// Phrase is a sentence the user practises.
type Phrase struct {
	ID          string    `json:"id"             yaml:"id"`
	Text        string    `json:"text"           yaml:"text"`
	Translation string    `json:"translation"    yaml:"translation"`
	Language    string    `json:"language"       yaml:"language"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"     yaml:"created_at"`
}

// PhraseCreate adds a phrase.
type PhraseCreate struct {
	Text        string   `json:"text"`
	Translation string   `json:"translation"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags,omitempty"`
}

// BulkFailure reports one rejected entry of a bulk upload.
type BulkFailure struct {
	Index int    `json:"index" yaml:"index"`
	Error string `json:"error" yaml:"error"`
}

// BulkResult is the outcome of a bulk upload.
type BulkResult struct {
	Created int           `json:"created"          yaml:"created"`
	Failed  []BulkFailure `json:"failed,omitempty" yaml:"failed,omitempty"`
}
