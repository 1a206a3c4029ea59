package models

// Page is a resource the logged-in user is allowed to manage.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// Label returns the name shown in lists.
func (p Page) Label() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name
}
