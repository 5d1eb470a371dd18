package models

// AskRequest for POST /ask
type AskRequest struct {
	Question string `json:"question"`
}
