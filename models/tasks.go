package models

// PDFJob is the payload of a background PDF render.
type PDFJob struct {
	ID      string     `json:"id"`
	Content DuaContent `json:"content"`
}
