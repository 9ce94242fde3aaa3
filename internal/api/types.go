// ABOUTME: Domain types exchanged with the ControlSystem backend
// ABOUTME: Mirrors the JSON shapes served by the defects REST API

package api

// Role is a user's role on the construction site.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleForeman  Role = "foreman"
	RoleManager  Role = "manager"
)

// Status is a defect's position in the fixed lifecycle.
// Transitions are not validated client-side; the server decides legality.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Priority is a defect's urgency classification.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// User is a read-only copy of an identity record owned by the server.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Comment is one entry in a defect's append-only comment thread.
type Comment struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
	AuthorID  string `json:"authorId"`
	CreatedAt string `json:"createdAt"`
}

// Defect is a recorded construction-site issue.
type Defect struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	Priority     Priority  `json:"priority"`
	Location     string    `json:"location"`
	AssignedTo   *User     `json:"assignedTo,omitempty"`
	AssignedToID string    `json:"assignedToId,omitempty"`
	CreatedBy    User      `json:"createdBy"`
	CreatedByID  string    `json:"createdById"`
	Photos       []string  `json:"photos"`
	Comments     []Comment `json:"comments"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// PriorityCounts breaks down defect totals by priority.
type PriorityCounts struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// DefectStats is the aggregate counts served by GET /defects/stats.
type DefectStats struct {
	Total      int            `json:"total"`
	Open       int            `json:"open"`
	InProgress int            `json:"inProgress"`
	Resolved   int            `json:"resolved"`
	Closed     int            `json:"closed"`
	ByPriority PriorityCounts `json:"byPriority"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateDefectRequest is the POST /defects payload.
type CreateDefectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Priority     Priority `json:"priority"`
	Location     string   `json:"location"`
	AssignedToID string   `json:"assignedToId,omitempty"`
	Photos       []string `json:"photos,omitempty"`
}

// UpdateDefectRequest is the PATCH /defects/{id} payload.
// Nil fields are omitted from the request so the server only sees the
// fields being changed.
type UpdateDefectRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Status       *Status   `json:"status,omitempty"`
	Priority     *Priority `json:"priority,omitempty"`
	Location     *string   `json:"location,omitempty"`
	AssignedToID *string   `json:"assignedToId,omitempty"`
}

// CommentRequest is the POST /defects/{id}/comments payload.
type CommentRequest struct {
	Content string `json:"content"`
}
