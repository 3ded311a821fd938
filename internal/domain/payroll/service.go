package payroll

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

// RunRequest describes one payroll run: the global period, the requested
// employee ids and their manual adjustments.
type RunRequest struct {
	PeriodFrom  time.Time
	PeriodTo    time.Time
	EmployeeIDs []string
	Adjustments map[string]Adjustment
	Notes       string
}

// Preview calculates without persisting anything. The tagged outcomes keep
// skipped ids visible to the caller.
func (s *Service) Preview(ctx context.Context, req RunRequest) ([]Outcome, error) {
	in, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordPayrollRun()
	}
	return CalculateDetailed(in), nil
}

// Commit calculates and persists one ledger entry per included result,
// generating a receipt and syncing each row to the spreadsheet. Receipt and
// sync failures do not fail the commit; sync failures are queued for retry.
func (s *Service) Commit(ctx context.Context, req RunRequest) ([]Entry, error) {
	in, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordPayrollRun()
	}

	var entries []Entry
	for _, res := range Calculate(in) {
		entry := Entry{
			PeriodFrom:          req.PeriodFrom,
			PeriodTo:            req.PeriodTo,
			EmployeeID:          res.Employee.ID,
			EmployeeName:        res.Employee.FullName(),
			DaysWorked:          res.DaysWorked,
			EarnedSalary:        res.EarnedSalary,
			EarnedAllowance:     res.EarnedAllowance,
			EarnedOther:         res.EarnedOther,
			ContributionBase:    res.ContributionBase,
			HealthDeduction:     res.HealthDeduction,
			PensionDeduction:    res.PensionDeduction,
			SolidarityDeduction: res.SolidarityDeduction,
			OtherDeduction:      res.OtherDeduction,
			NetPay:              res.NetPay,
			Notes:               req.Notes,
		}

		id, err := s.store.InsertEntry(ctx, entry)
		if err != nil {
			return entries, err
		}
		entry.ID = id
		entry.CreatedAt = time.Now().UTC()

		if path, err := s.generateReceipt(entry, res.Employee); err != nil {
			slog.Warn("payroll receipt generation failed", "entryId", id, "err", err)
		} else {
			entry.ReceiptPath = path
			if err := s.store.SetReceiptPath(ctx, id, path); err != nil {
				slog.Warn("payroll receipt path update failed", "entryId", id, "err", err)
			}
		}

		s.syncEntry(ctx, entry)
		s.notify(ctx, entry, res.Employee)

		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Service) snapshot(ctx context.Context, req RunRequest) (CalculationInput, error) {
	roster, err := s.employees.List(ctx)
	if err != nil {
		return CalculationInput{}, fmt.Errorf("load roster: %w", err)
	}
	table, err := s.params.List(ctx)
	if err != nil {
		return CalculationInput{}, fmt.Errorf("load parameters: %w", err)
	}
	return CalculationInput{
		PeriodFrom:  req.PeriodFrom,
		PeriodTo:    req.PeriodTo,
		EmployeeIDs: req.EmployeeIDs,
		Employees:   roster,
		Parameters:  params.NewSet(table),
		Adjustments: req.Adjustments,
	}, nil
}

func (s *Service) syncEntry(ctx context.Context, entry Entry) {
	if !s.sheets.Enabled() {
		return
	}
	record := map[string]any{
		"id_mov":            entry.ID,
		"fecha_registro":    entry.CreatedAt.Format("2006-01-02"),
		"periodo_desde":     entry.PeriodFrom.Format("2006-01-02"),
		"periodo_hasta":     entry.PeriodTo.Format("2006-01-02"),
		"empleado_id":       entry.EmployeeID,
		"empleado_nombre":   entry.EmployeeName,
		"dias_laborados":    entry.DaysWorked,
		"devengado_salario": entry.EarnedSalary,
		"devengado_auxilio": entry.EarnedAllowance,
		"devengado_otros":   entry.EarnedOther,
		"deduccion_salud":   entry.HealthDeduction,
		"deduccion_pension": entry.PensionDeduction,
		"deduccion_fsp":     entry.SolidarityDeduction,
		"deduccion_otros":   entry.OtherDeduction,
		"neto_pagar":        entry.NetPay,
		"observaciones":     entry.Notes,
	}
	if err := s.sheets.AddRow(ctx, sheets.SheetPayroll, record); err != nil {
		slog.Warn("payroll sheet sync failed, queueing", "entryId", entry.ID, "err", err)
		if s.syncQueue != nil {
			s.syncQueue.QueueSheetRow(ctx, sheets.SheetPayroll, record, err)
		}
	}
}

func (s *Service) notify(ctx context.Context, entry Entry, emp employee.Employee) {
	if s.mailer == nil {
		return
	}
	subject := fmt.Sprintf("Recibo de nómina %s a %s",
		entry.PeriodFrom.Format("2006-01-02"), entry.PeriodTo.Format("2006-01-02"))
	body := fmt.Sprintf("Hola %s,\n\nTu nómina del período fue liquidada. Neto a pagar: %s.\n",
		emp.FirstName, currency.FormatCOP(entry.NetPay))
	if err := s.mailer.Send(ctx, s.emailFrom, emp.Email, subject, body); err != nil {
		slog.Warn("payroll notice email failed", "entryId", entry.ID, "err", err)
	}
}

func (s *Service) generateReceipt(entry Entry, emp employee.Employee) (string, error) {
	dir := filepath.Join(s.receiptDir, "payroll")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, entry.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Recibo de Nómina")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Empleado: %s", emp.FullName()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Documento: %s", emp.DocumentID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Período: %s a %s (%d días)",
		entry.PeriodFrom.Format("2006-01-02"), entry.PeriodTo.Format("2006-01-02"), entry.DaysWorked))
	pdf.Ln(10)
	lines := []struct {
		label string
		value float64
	}{
		{"Salario devengado", entry.EarnedSalary},
		{"Auxilio de transporte", entry.EarnedAllowance},
		{"Otros devengados", entry.EarnedOther},
		{"Base de cotización (IBC)", entry.ContributionBase},
		{"Deducción salud", entry.HealthDeduction},
		{"Deducción pensión", entry.PensionDeduction},
		{"Fondo de solidaridad", entry.SolidarityDeduction},
		{"Otras deducciones", entry.OtherDeduction},
	}
	for _, l := range lines {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %s", l.label, currency.FormatCOP(l.value)))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Neto a pagar: %s", currency.FormatCOP(entry.NetPay)))

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
