package global

import (
	"order_desk/config"
	"order_desk/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	OrderCustomers   string // Tên collection cho khách hàng đặt đơn
	OrderSubmissions string // Tên collection cho bản khai onboarding
	WebhookLogs      string // Tên collection cho log webhook thanh toán
	SyncSnapshots    string // Tên collection cho snapshot đối soát
}

// Các biến toàn cục
var Validate *validator.Validate                // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames = MongoDB_CollectionName{ // Tên các collection
	OrderCustomers:   "order_customers",
	OrderSubmissions: "order_submissions",
	WebhookLogs:      "webhook_logs",
	SyncSnapshots:    "sync_snapshots",
}

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
