package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/inkforge/scribeguard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const documentsCollection = "document_artifacts"

type DocumentsRepository struct {
	mongoRepo *MongoRepository
}

func NewDocumentsRepository(mongoRepo *MongoRepository) *DocumentsRepository {
	return &DocumentsRepository{
		mongoRepo: mongoRepo,
	}
}

// UpsertArtifact stores the preprocessed form of a document, replacing any
// earlier version of the same documentId.
func (r *DocumentsRepository) UpsertArtifact(ctx context.Context, artifact *models.Artifact) error {
	artifact.CreatedAt = time.Now()

	filter := bson.M{"documentId": artifact.DocumentID}
	update := bson.M{"$set": artifact}
	opts := options.Update().SetUpsert(true)

	err := r.mongoRepo.UpdateOne(ctx, documentsCollection, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}

	return nil
}

func (r *DocumentsRepository) GetByDocumentID(ctx context.Context, documentID string) (*models.Artifact, error) {
	filter := bson.M{"documentId": documentID}

	var artifact models.Artifact
	err := r.mongoRepo.FindOne(ctx, documentsCollection, filter).Decode(&artifact)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find artifact: %w", err)
	}

	return &artifact, nil
}

func (r *DocumentsRepository) GetByAuthorID(ctx context.Context, authorID string) ([]*models.Artifact, error) {
	filter := bson.M{"authorId": authorID}

	cursor, err := r.mongoRepo.FindMany(ctx, documentsCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find artifacts: %w", err)
	}
	defer cursor.Close(ctx)

	var artifacts []*models.Artifact
	if err := cursor.All(ctx, &artifacts); err != nil {
		return nil, fmt.Errorf("failed to decode artifacts: %w", err)
	}

	return artifacts, nil
}

func (r *DocumentsRepository) CountByAuthorID(ctx context.Context, authorID string) (int64, error) {
	filter := bson.M{"authorId": authorID}

	count, err := r.mongoRepo.CountDocuments(ctx, documentsCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count artifacts: %w", err)
	}

	return count, nil
}
