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

const reportsCollection = "plagiarism_reports"

type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ReportsRepository) InsertReport(ctx context.Context, report *models.Report) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	err := r.mongoRepo.InsertOne(ctx, reportsCollection, report)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

func (r *ReportsRepository) UpdateReportStatus(ctx context.Context, reportID, status string) error {
	filter := bson.M{"reportId": reportID}
	update := bson.M{"$set": bson.M{"status": status}}

	err := r.mongoRepo.UpdateOne(ctx, reportsCollection, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}

	return nil
}

// ReplaceReport overwrites a pending report with its completed form.
func (r *ReportsRepository) ReplaceReport(ctx context.Context, report *models.Report) error {
	filter := bson.M{"reportId": report.ID}
	update := bson.M{"$set": report}

	err := r.mongoRepo.UpdateOne(ctx, reportsCollection, filter, update)
	if err != nil {
		return fmt.Errorf("failed to replace report: %w", err)
	}

	return nil
}

func (r *ReportsRepository) GetLatestReportByDocumentID(ctx context.Context, documentID string) (*models.Report, error) {
	filter := bson.M{"documentId": documentID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var report models.Report
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter, opts).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	return &report, nil
}

func (r *ReportsRepository) GetReportByID(ctx context.Context, reportID string) (*models.Report, error) {
	filter := bson.M{"reportId": reportID}

	var report models.Report
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	return &report, nil
}
