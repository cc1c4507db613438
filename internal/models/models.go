package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO-8601 calendar date format used on the wire and for ordering.
const DateLayout = "2006-01-02"

// TimeRecord is a single validated row of an uploaded time report.
type TimeRecord struct {
	ReportID    int       `json:"report_id"`
	Date        time.Time `json:"date" validate:"required"`
	HoursWorked float64   `json:"hours_worked" validate:"gte=0"`
	EmployeeID  string    `json:"employee_id" validate:"required"`
	JobGroup    string    `json:"job_group" validate:"required,len=1"`
}

// TimeReport is one ingested batch (one uploaded file) and the records it carried.
type TimeReport struct {
	ReportID    int          `json:"reportId"`
	UploadID    uuid.UUID    `json:"uploadId"`
	FileName    string       `json:"fileName"`
	CheckSum    string       `json:"checksum"`
	RecordCount int          `json:"recordCount"`
	UploadedAt  time.Time    `json:"uploadedAt"`
	Records     []TimeRecord `json:"-"`
}

// PayPeriod is an inclusive semi-monthly date range.
type PayPeriod struct {
	StartDate time.Time
	EndDate   time.Time
}

func (p PayPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{
		StartDate: p.StartDate.Format(DateLayout),
		EndDate:   p.EndDate.Format(DateLayout),
	})
}

func (p *PayPeriod) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := time.Parse(DateLayout, raw.StartDate)
	if err != nil {
		return fmt.Errorf("invalid startDate %q: %w", raw.StartDate, err)
	}
	end, err := time.Parse(DateLayout, raw.EndDate)
	if err != nil {
		return fmt.Errorf("invalid endDate %q: %w", raw.EndDate, err)
	}

	p.StartDate, p.EndDate = start, end
	return nil
}

type EmployeeReport struct {
	EmployeeID string    `json:"employeeId"`
	PayPeriod  PayPeriod `json:"payPeriod"`
	AmountPaid string    `json:"amountPaid"`
}

type PayrollReport struct {
	EmployeeReports []EmployeeReport `json:"employeeReports"`
}

// PayrollReportEnvelope is the top-level document served to clients.
type PayrollReportEnvelope struct {
	PayrollReport PayrollReport `json:"payrollReport"`
}

type AppError struct {
	ReportID int
	Line     int
	Message  string
	Err      error
}

func (e *AppError) Error() string {
	location := fmt.Sprintf("ReportID %d", e.ReportID)
	if e.Line > 0 {
		location = fmt.Sprintf("%s line %d", location, e.Line)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", location, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReportID int    `json:"reportId"`
		Line     int    `json:"line,omitempty"`
		Message  string `json:"message"`
		Error    string `json:"error"`
	}{
		ReportID: e.ReportID,
		Line:     e.Line,
		Message:  e.Message,
		Error:    e.Error(),
	})
}

type FileInfo struct {
	Path     string
	ReportID int
}

type FileProcessingJob struct {
	FilePath string
	ReportID int
}

type ReportErrorMap struct {
	Errors map[int][]AppError
	Mu     sync.Mutex
}

type IngestionChannels struct {
	Jobs    chan FileProcessingJob
	Results chan *TimeReport
	Errors  chan AppError
}

type IngestionWaitGroups struct {
	ParserWg *sync.WaitGroup
	WriterWg *sync.WaitGroup
	MainWg   *sync.WaitGroup
}

// ReportSet is a concurrency-safe set of report ids.
type ReportSet struct {
	IDs map[int]bool
	Mu  sync.Mutex
}

func NewReportSet() *ReportSet {
	return &ReportSet{IDs: make(map[int]bool)}
}

func (s *ReportSet) Add(reportID int) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.IDs[reportID] = true
}

// Sorted returns the ids in ascending order.
func (s *ReportSet) Sorted() []int {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	ids := make([]int, 0, len(s.IDs))
	for id := range s.IDs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type SetupReturn struct {
	Channels       *IngestionChannels
	WaitGroups     *IngestionWaitGroups
	ReportErrorMap *ReportErrorMap
	Ingested       *ReportSet
	Skipped        *ReportSet
}

func (s *SetupReturn) GetValues() (*IngestionChannels, *IngestionWaitGroups, *ReportErrorMap, *ReportSet, *ReportSet) {
	return s.Channels, s.WaitGroups, s.ReportErrorMap, s.Ingested, s.Skipped
}

// IngestionSummary describes the outcome of a batch ingestion run.
type IngestionSummary struct {
	Ingested []int              `json:"ingested"`
	Skipped  []int              `json:"skipped"`
	Failed   map[int][]AppError `json:"failed"`
}
