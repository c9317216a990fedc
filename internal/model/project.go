package model

// Project is a hackathon submission
type Project struct {
	ID          ID        `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repo_url"`
	DemoURL     *string   `json:"demo_url"`
	TechStack   string    `json:"tech_stack"` // Comma-separated
	UserID      string    `json:"user_id"`
	CreatedAt   Timestamp `json:"created_at"`
}
