package domain

import "time"

// ApprovalState is the review status of a single document version.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// Document is a named file attached to an employee record. Names are unique
// within a record. Approval is tied to a specific file version: replacing
// the content always moves the state back to pending.
type Document struct {
	ID          string        `json:"id" bson:"id"`
	Name        string        `json:"name" bson:"name"`
	FileName    string        `json:"file_name" bson:"file_name"`
	ContentType string        `json:"content_type" bson:"content_type"`
	Size        int64         `json:"size" bson:"size"`
	Data        []byte        `json:"-" bson:"data"`
	Approved    ApprovalState `json:"approved" bson:"approved"`
	UploadedAt  time.Time     `json:"uploaded_at" bson:"uploaded_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// NewDocument builds a pending document from an uploaded file.
func NewDocument(id, name, fileName, contentType string, data []byte, now time.Time) Document {
	return Document{
		ID:          id,
		Name:        name,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
		Approved:    ApprovalPending,
		UploadedAt:  now,
		UpdatedAt:   now,
	}
}

// Replace swaps the stored file for a new version and resets the approval
// state, whatever it was.
func (d *Document) Replace(fileName, contentType string, data []byte, now time.Time) {
	d.FileName = fileName
	d.ContentType = contentType
	d.Data = data
	d.Size = int64(len(data))
	d.Approved = ApprovalPending
	d.UpdatedAt = now
}

// EmployeeRecord is the aggregate root for one employee. It exclusively owns
// its documents; UserID and ManagerID are references to users, never owned.
// Invariant: ManagerID never equals UserID.
type EmployeeRecord struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Data      string     `json:"data" bson:"data"`
	ManagerID string     `json:"manager_id,omitempty" bson:"manager_id,omitempty"`
	Documents []Document `json:"documents" bson:"documents"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// FindDocument returns the document with the given name, if present.
func (e *EmployeeRecord) FindDocument(name string) (*Document, bool) {
	for i := range e.Documents {
		if e.Documents[i].Name == name {
			return &e.Documents[i], true
		}
	}
	return nil, false
}
