// Package database - Index cho các collection của order domain.
package database

import (
	"context"
	"strings"

	"order_desk/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrderIndexes tạo các index cho order domain.
// Email là khóa định danh khách hàng nên phải unique.
func CreateOrderIndexes(ctx context.Context, db *mongo.Database) error {
	// order_customers: email unique — một khách hàng duy nhất cho mỗi email
	orderCustomers := db.Collection(global.MongoDB_ColNames.OrderCustomers)
	if _, err := orderCustomers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("order_customer_email").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// order_customers: activeProjects.paymentSessionId sparse — idempotency check khi ingest
	if _, err := orderCustomers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "activeProjects.paymentSessionId", Value: 1}},
		Options: options.Index().SetName("order_customer_payment_session").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// order_customers: (deleted, createdAt) — danh sách admin, lọc soft-deleted
	if _, err := orderCustomers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "deleted", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("order_customer_deleted_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// order_submissions: submissionId unique — business key tra cứu từ admin UI
	orderSubmissions := db.Collection(global.MongoDB_ColNames.OrderSubmissions)
	if _, err := orderSubmissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "submissionId", Value: 1}},
		Options: options.Index().SetName("order_submission_id").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// order_submissions: (customerEmail, status) — tra cứu bản khai theo khách hàng
	if _, err := orderSubmissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerEmail", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("order_submission_email_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// webhook_logs: (source, createdAt) — tra cứu log webhook theo nguồn
	webhookLogs := db.Collection(global.MongoDB_ColNames.WebhookLogs)
	if _, err := webhookLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "source", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("webhook_log_source_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// sync_snapshots: (bucket, key) unique — mỗi bucket/key một snapshot
	syncSnapshots := db.Collection(global.MongoDB_ColNames.SyncSnapshots)
	if _, err := syncSnapshots.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "bucket", Value: 1},
			{Key: "key", Value: 1},
		},
		Options: options.Index().SetName("sync_snapshot_bucket_key").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
