package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

const collectionEmployees = "employees"

// EmployeeRepository persists employee records with their documents embedded
// in the same document, so every mutation below is a single-document update:
// per-record atomicity comes from MongoDB, concurrent conflicting writes to
// the same record are last-writer-wins.
type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

func (r *EmployeeRepository) Insert(ctx context.Context, record *domain.EmployeeRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.EmployeeRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *EmployeeRepository) FindByOwner(ctx context.Context, userID string) (*domain.EmployeeRecord, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.EmployeeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var record domain.EmployeeRecord
	if err := r.col.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &record, nil
}

func (r *EmployeeRepository) ListAll(ctx context.Context) ([]domain.EmployeeRecord, error) {
	return r.list(ctx, bson.M{})
}

func (r *EmployeeRepository) ListByManager(ctx context.Context, managerID string) ([]domain.EmployeeRecord, error) {
	return r.list(ctx, bson.M{"manager_id": managerID})
}

func (r *EmployeeRepository) list(ctx context.Context, filter bson.M) ([]domain.EmployeeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer cur.Close(ctx)

	var records []domain.EmployeeRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return records, nil
}

// UpdateManager sets or clears the manager reference in one update.
func (r *EmployeeRepository) UpdateManager(ctx context.Context, employeeID, managerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"updated_at": now}}
	if managerID == "" {
		update["$unset"] = bson.M{"manager_id": ""}
	} else {
		update["$set"].(bson.M)["manager_id"] = managerID
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": employeeID}, update)
	if err != nil {
		return fmt.Errorf("update manager: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// UpsertDocument replaces the embedded document with the same name, or
// appends it when the name is new.
func (r *EmployeeRepository) UpsertDocument(ctx context.Context, employeeID string, doc domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": employeeID, "documents.name": doc.Name},
		bson.M{"$set": bson.M{"documents.$": doc, "updated_at": now}})
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = r.col.UpdateOne(ctx,
		bson.M{"_id": employeeID},
		bson.M{"$push": bson.M{"documents": doc}, "$set": bson.M{"updated_at": now}})
	if err != nil {
		return fmt.Errorf("append document: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// UpdateDocumentApproval sets the approval state of a named document.
func (r *EmployeeRepository) UpdateDocumentApproval(ctx context.Context, employeeID, name string, state domain.ApprovalState) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": employeeID, "documents.name": name},
		bson.M{"$set": bson.M{
			"documents.$.approved":   state,
			"documents.$.updated_at": time.Now().UTC(),
			"updated_at":             time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("update approval: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the employees collection.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "manager_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
