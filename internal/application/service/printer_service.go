package service

import (
	"context"
	"fmt"
	"log"

	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/printer"
	"github.com/kedaikopi/pos-api/pkg/utils"
)

// PrinterService handles receipt formatting, thermal printing and the cash
// drawer. It also doubles as the kitchen notifier for held orders.
type PrinterService struct {
	printer      printer.Printer
	settingsRepo repository.SettingsRepository
	printerType  string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, settingsRepo repository.SettingsRepository, printerType string) *PrinterService {
	return &PrinterService{
		printer:      p,
		settingsRepo: settingsRepo,
		printerType:  printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

func (s *PrinterService) header(ctx context.Context) entity.ReceiptHeader {
	header := entity.ReceiptHeader{StoreName: "Kedai Kopi"}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil || settings == nil {
		return header
	}
	header.StoreName = settings.StoreName
	header.Address = settings.StoreAddress
	header.Phone = settings.StorePhone
	return header
}

// BuildReceipt composes a printable receipt from a persisted sale.
func (s *PrinterService) BuildReceipt(ctx context.Context, sale *entity.Sale) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:      s.header(ctx),
		SaleNumber:  sale.SaleNumber,
		Date:        sale.CreatedAt.Format("02 Jan 2006 15:04"),
		Customer:    sale.CustomerName,
		TableNo:     sale.TableNo,
		PaymentType: string(sale.PaymentType),
		Subtotal:    sale.Subtotal,
		Discount:    sale.Discount,
		Tax:         sale.Tax,
		Service:     sale.Service,
		Total:       sale.Total,
		Tendered:    sale.Tendered,
		Change:      sale.Change,
	}
	if sale.User.FirstName != "" {
		receipt.Cashier = sale.User.FullName()
	}

	for _, item := range sale.Items {
		ri := entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.LineTotal,
		}
		for _, addon := range item.Addons {
			ri.Addons = append(ri.Addons, entity.ReceiptAddon{
				Name:  addon.Name,
				Price: addon.Price,
			})
		}
		receipt.Items = append(receipt.Items, ri)
	}
	return receipt
}

// PrintSale renders and prints the receipt for a sale.
func (s *PrinterService) PrintSale(sale *entity.Sale) error {
	receipt := s.BuildReceipt(context.Background(), sale)
	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		log.Printf("Printer error (sale %s): %v", sale.SaleNumber, err)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// PrintReceipt prints an already-built receipt.
func (s *PrinterService) PrintReceipt(receipt *entity.Receipt) error {
	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// OpenDrawer kicks the cash drawer without printing.
func (s *PrinterService) OpenDrawer() error {
	if err := s.printer.Print(printer.DrawerKickBytes()); err != nil {
		return fmt.Errorf("failed to open drawer: %w", err)
	}
	return nil
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:     s.header(ctx),
		SaleNumber: "TEST-001",
		Date:       "Test Date",
		Cashier:    "System",
		Items: []entity.ReceiptItem{
			{Name: "Es Kopi Susu", Quantity: 1, UnitPrice: 18000, Total: 18000},
			{Name: "Roti Bakar", Quantity: 2, UnitPrice: 12000, Total: 24000},
		},
		Subtotal: 42000,
		Total:    42000,
	}

	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// NotifyHold prints a kitchen ticket for a held order. Errors only log;
// holding never fails because the kitchen printer is down.
func (s *PrinterService) NotifyHold(order *entity.HeldOrder) {
	doc := printer.NewDocument(32)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("** KITCHEN **").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	if order.TableNo != nil {
		doc.KeyValue("Table:", fmt.Sprintf("%d", *order.TableNo))
	}
	if order.CustomerName != "" {
		doc.KeyValue("Customer:", order.CustomerName)
	}
	doc.KeyValue("Time:", order.CreatedAt.Format("15:04"))
	doc.Separator('-')

	for _, line := range order.Lines {
		doc.TextF("%dx %s", line.Quantity, line.Name)
		for _, addon := range line.Addons {
			doc.Indent("+ " + addon.Name)
		}
	}

	doc.FeedLines(3).PartialCut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		log.Printf("kitchen ticket for held order %s: %v", order.ID, err)
	}
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Sale info
	doc.KeyValue("No:", r.SaleNumber).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.TableNo != nil {
		doc.KeyValue("Table:", fmt.Sprintf("%d", *r.TableNo))
	}
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, utils.FormatRupiah(item.Total))
		for _, addon := range item.Addons {
			doc.Indent(fmt.Sprintf("+ %s %s", addon.Name, utils.FormatRupiah(addon.Price)))
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal", utils.FormatRupiah(r.Subtotal))
	if r.Discount > 0 {
		doc.KeyValue("Discount", "-"+utils.FormatRupiah(r.Discount))
	}
	if r.Tax > 0 {
		doc.KeyValue("Tax", utils.FormatRupiah(r.Tax))
	}
	if r.Service > 0 {
		doc.KeyValue("Service", utils.FormatRupiah(r.Service))
	}
	doc.SetBold(true).
		KeyValue("TOTAL", utils.FormatRupiah(r.Total)).
		SetBold(false)

	if r.PaymentType == string(enum.PaymentTypeCash) && r.Tendered > 0 {
		doc.KeyValue("Cash", utils.FormatRupiah(r.Tendered)).
			KeyValue("Change", utils.FormatRupiah(r.Change))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Terima kasih!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
