// Package delivery gửi email giao dịch cho khách hàng order.
package delivery

import (
	"context"
	"fmt"

	"order_desk/internal/api/events"
	"order_desk/internal/delivery/channels"
	"order_desk/internal/global"
	"order_desk/internal/logger"
	"order_desk/internal/utility"
)

// RegisterWelcomeEmailOnPurchase đăng ký listener gửi email chào mừng khi một
// khách hàng mới được tạo từ purchase đầu tiên. Gửi lỗi chỉ log, không bao giờ
// chặn luồng ingest. Bỏ qua khi SMTP chưa cấu hình.
func RegisterWelcomeEmailOnPurchase() {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		if e.CollectionName != global.MongoDB_ColNames.OrderCustomers || e.Operation != events.OpInsert {
			return
		}
		if global.MongoDB_ServerConfig.SMTPHost == "" {
			return
		}

		log := logger.GetAppLogger()
		email := events.CustomerEmailFromDocument(e.Document)
		if email == "" {
			return
		}

		doc, err := utility.ToMap(e.Document)
		if err != nil {
			log.WithError(err).Warn("📧 [DELIVERY] Không đọc được document khách hàng mới")
			return
		}
		name, _ := doc["name"].(string)
		packageName, _ := doc["packageName"].(string)

		if sendErr := channels.SendEmail(
			global.MongoDB_ServerConfig,
			email,
			"Chào mừng bạn đến với dịch vụ của chúng tôi",
			welcomeEmailBody(name, packageName),
		); sendErr != nil {
			log.WithError(sendErr).WithField("email", email).Warn("📧 [DELIVERY] Gửi email chào mừng thất bại")
			return
		}
		log.WithField("email", email).Info("📧 [DELIVERY] Đã gửi email chào mừng")
	})
}

// welcomeEmailBody dựng nội dung HTML cho email chào mừng.
func welcomeEmailBody(name string, packageName string) string {
	greeting := "Xin chào"
	if name != "" {
		greeting = fmt.Sprintf("Xin chào %s", name)
	}
	body := fmt.Sprintf(`<p>%s,</p><p>Cảm ơn bạn đã thanh toán thành công. Đơn hàng của bạn đã được khởi tạo.</p>`, greeting)
	if packageName != "" {
		body += fmt.Sprintf(`<p>Gói dịch vụ: <strong>%s</strong></p>`, packageName)
	}
	body += fmt.Sprintf(`<p>Bước tiếp theo: điền form onboarding tại <a href="%s">%s</a> để chúng tôi bắt đầu triển khai.</p>`,
		global.MongoDB_ServerConfig.FrontendURL, global.MongoDB_ServerConfig.FrontendURL)
	return body
}
