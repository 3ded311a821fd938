package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
	cryptoutil "nomina/internal/platform/crypto"
	"nomina/internal/platform/currency"
	"nomina/internal/platform/email"
	"nomina/internal/platform/metrics"
	"nomina/internal/platform/sheets"
)

// SyncQueue parks spreadsheet rows that failed to sync for later retry.
type SyncQueue interface {
	QueueSheetRow(ctx context.Context, sheet string, record map[string]any, cause error)
}

type Service struct {
	store     StoreAPI
	employees employee.StoreAPI
	params    params.StoreAPI
	crypto    *cryptoutil.Service
	sheets    *sheets.Client
	syncQueue SyncQueue
	mailer    email.Mailer
	metrics   *metrics.Collector

	receiptDir string
	emailFrom  string
}

func NewService(
	store StoreAPI,
	employees employee.StoreAPI,
	paramStore params.StoreAPI,
	crypto *cryptoutil.Service,
	sheetsClient *sheets.Client,
	syncQueue SyncQueue,
	mailer email.Mailer,
	collector *metrics.Collector,
	receiptDir, emailFrom string,
) *Service {
	return &Service{
		store:      store,
		employees:  employees,
		params:     paramStore,
		crypto:     crypto,
		sheets:     sheetsClient,
		syncQueue:  syncQueue,
		mailer:     mailer,
		metrics:    collector,
		receiptDir: receiptDir,
		emailFrom:  emailFrom,
	}
}

// RunRequest describes one settlement: who, when, the manual adjustment and
// whether the already-paid June prima should be offset.
type RunRequest struct {
	EmployeeID        string
	TerminationDate   time.Time
	Adjustment        Adjustment
	OffsetMidYearPaid bool
	Notes             string
}

// Preview calculates without persisting anything.
func (s *Service) Preview(ctx context.Context, req RunRequest) (Result, error) {
	res, err := s.calculate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordSettlementRun()
	}
	return res, nil
}

// Commit calculates, persists the settlement, generates the receipt, marks
// the employee inactive with the termination date, and syncs the row.
func (s *Service) Commit(ctx context.Context, req RunRequest) (Entry, error) {
	res, err := s.calculate(ctx, req)
	if err != nil {
		return Entry{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordSettlementRun()
	}

	entry := Entry{
		EmployeeID:        res.Employee.ID,
		EmployeeName:      res.Employee.FullName(),
		HireDate:          res.Employee.HireDate,
		TerminationDate:   res.TerminationDate,
		TenureDays:        res.TenureDays,
		Cesantias:         res.Cesantias,
		CesantiasInterest: res.CesantiasInterest,
		Prima:             res.Prima,
		Vacaciones:        res.Vacaciones,
		OtherConcepts:     res.OtherConcepts,
		Deductions:        res.Deductions,
		TotalPayable:      res.TotalPayable,
		Notes:             req.Notes,
	}

	id, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	entry.ID = id
	entry.CreatedAt = time.Now().UTC()

	// The status transition belongs to the committing caller, never to the
	// calculator itself.
	if err := s.employees.MarkInactive(ctx, res.Employee.ID, res.TerminationDate); err != nil {
		return entry, fmt.Errorf("mark inactive: %w", err)
	}

	if path, err := s.generateReceipt(entry, res); err != nil {
		slog.Warn("settlement receipt generation failed", "entryId", id, "err", err)
	} else {
		entry.ReceiptPath = path
		if err := s.store.SetReceiptPath(ctx, id, path); err != nil {
			slog.Warn("settlement receipt path update failed", "entryId", id, "err", err)
		}
	}

	s.syncEntry(ctx, entry)
	s.notify(ctx, entry, res.Employee)

	return entry, nil
}

func (s *Service) calculate(ctx context.Context, req RunRequest) (Result, error) {
	roster, err := s.employees.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load roster: %w", err)
	}
	table, err := s.params.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load parameters: %w", err)
	}

	res, err := Calculate(CalculationInput{
		EmployeeID:      req.EmployeeID,
		TerminationDate: req.TerminationDate,
		Employees:       roster,
		Parameters:      params.NewSet(table),
		Adjustment:      req.Adjustment,
	})
	if err != nil {
		return Result{}, err
	}
	if req.OffsetMidYearPaid {
		res = ApplyMidYearBonusOffset(res)
	}
	return res, nil
}

func (s *Service) syncEntry(ctx context.Context, entry Entry) {
	if !s.sheets.Enabled() {
		return
	}
	record := map[string]any{
		"id_liq":              entry.ID,
		"fecha_registro":      entry.CreatedAt.Format("2006-01-02"),
		"empleado_id":         entry.EmployeeID,
		"empleado_nombre":     entry.EmployeeName,
		"fecha_ingreso":       entry.HireDate.Format("2006-01-02"),
		"fecha_retiro":        entry.TerminationDate.Format("2006-01-02"),
		"dias_antiguedad":     entry.TenureDays,
		"cesantias":           entry.Cesantias,
		"intereses_cesantias": entry.CesantiasInterest,
		"prima":               entry.Prima,
		"vacaciones":          entry.Vacaciones,
		"otros_conceptos":     entry.OtherConcepts,
		"deducciones":         entry.Deductions,
		"total_liquidacion":   entry.TotalPayable,
		"observaciones":       entry.Notes,
	}
	if err := s.sheets.AddRow(ctx, sheets.SheetSettlements, record); err != nil {
		slog.Warn("settlement sheet sync failed, queueing", "entryId", entry.ID, "err", err)
		if s.syncQueue != nil {
			s.syncQueue.QueueSheetRow(ctx, sheets.SheetSettlements, record, err)
		}
	}
}

func (s *Service) notify(ctx context.Context, entry Entry, emp employee.Employee) {
	if s.mailer == nil {
		return
	}
	subject := "Liquidación de contrato"
	body := fmt.Sprintf("Hola %s,\n\nTu liquidación con fecha de retiro %s fue registrada. Total a pagar: %s.\n",
		emp.FirstName, entry.TerminationDate.Format("2006-01-02"), currency.FormatCOP(entry.TotalPayable))
	if err := s.mailer.Send(ctx, s.emailFrom, emp.Email, subject, body); err != nil {
		slog.Warn("settlement notice email failed", "entryId", entry.ID, "err", err)
	}
}

func (s *Service) generateReceipt(entry Entry, res Result) (string, error) {
	dir := filepath.Join(s.receiptDir, "settlements")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, entry.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Liquidación de Contrato")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Empleado: %s", entry.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Documento: %s", res.Employee.DocumentID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Ingreso: %s  Retiro: %s  (%d días)",
		entry.HireDate.Format("2006-01-02"), entry.TerminationDate.Format("2006-01-02"), entry.TenureDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Salario base de prestaciones: %s", currency.FormatCOP(res.BenefitsBaseSalary)))
	pdf.Ln(10)
	lines := []struct {
		label string
		value float64
	}{
		{"Cesantías", entry.Cesantias},
		{"Intereses sobre cesantías", entry.CesantiasInterest},
		{"Prima de servicios", entry.Prima},
		{"Vacaciones", entry.Vacaciones},
		{"Otros conceptos", entry.OtherConcepts},
		{"Deducciones", entry.Deductions},
	}
	for _, l := range lines {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %s", l.label, currency.FormatCOP(l.value)))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Total liquidación: %s", currency.FormatCOP(entry.TotalPayable)))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}

	if s.crypto != nil && s.crypto.Configured() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, encrypted, 0o600); err != nil {
			return "", err
		}
	}
	return path, nil
}

// ReadReceipt returns the decrypted receipt bytes for an entry.
func (s *Service) ReadReceipt(ctx context.Context, entryID string) ([]byte, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ReceiptPath == "" {
		return nil, ErrEntryNotFound
	}
	data, err := os.ReadFile(entry.ReceiptPath)
	if err != nil {
		return nil, err
	}
	if s.crypto != nil && s.crypto.Configured() {
		return s.crypto.Decrypt(data)
	}
	return data, nil
}
