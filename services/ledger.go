package services

import (
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/models"

	"gorm.io/gorm"
)

// LedgerTotals is the summary returned alongside every ledger listing.
// closing = opening + credit - debit, always.
type LedgerTotals struct {
	OpeningBalance float64 `json:"opening_balance"`
	TotalCredit    float64 `json:"total_credit"`
	TotalDebit     float64 `json:"total_debit"`
	ClosingBalance float64 `json:"closing_balance"`
}

// LedgerFilter scopes a ledger query. Month==0 means the whole year,
// Year==0 means no date bound (opening balance is then just the base).
type LedgerFilter struct {
	LocationID      uint
	BankAccountID   uint
	Year            int
	Month           int
	TransactionType string
}

// NormalizePeriod fills in the current year when a month is given without
// one, so a bare month filter scopes to this year instead of being ignored.
func NormalizePeriod(year, month int) (int, int) {
	if month != 0 && year == 0 {
		year = time.Now().Year()
	}
	return year, month
}

// PeriodRange returns the half-open [start, end) range for a year/month filter.
func PeriodRange(year, month int) (time.Time, time.Time) {
	if month >= 1 && month <= 12 {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		return start, start.AddDate(0, 1, 0)
	}
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(1, 0, 0)
}

// BuildTotals assembles the summary from an opening balance and period sums.
func BuildTotals(opening, credit, debit float64) LedgerTotals {
	return LedgerTotals{
		OpeningBalance: opening,
		TotalCredit:    credit,
		TotalDebit:     debit,
		ClosingBalance: opening + credit - debit,
	}
}

// LedgerLine is the minimal shape SumLines needs; ledger models satisfy it
// via their entry type and amount columns.
type LedgerLine struct {
	EntryType string
	Amount    float64
}

// SumLines totals credit and debit over a slice of lines.
func SumLines(lines []LedgerLine) (credit, debit float64) {
	for _, l := range lines {
		switch l.EntryType {
		case models.EntryTypeCredit:
			credit += l.Amount
		case models.EntryTypeDebit:
			debit += l.Amount
		}
	}
	return credit, debit
}

// LedgerService computes authoritative totals for the cashbook, bank
// transaction and director ledger scopes. Totals cover the whole filtered
// range, never just the requested page.
type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

type sumRow struct {
	Credit float64
	Debit  float64
}

const signedSumSelect = "COALESCE(SUM(CASE WHEN entry_type = 'CREDIT' THEN amount ELSE 0 END), 0) AS credit, " +
	"COALESCE(SUM(CASE WHEN entry_type = 'DEBIT' THEN amount ELSE 0 END), 0) AS debit"

func (ls *LedgerService) sum(query *gorm.DB) (sumRow, error) {
	var row sumRow
	err := query.Select(signedSumSelect).Scan(&row).Error
	return row, err
}

// CashbookTotals computes the summary for a cashbook scope.
func (ls *LedgerService) CashbookTotals(filter LedgerFilter) (LedgerTotals, error) {
	base := func() *gorm.DB {
		q := database.DB.Model(&models.CashbookEntry{})
		if filter.LocationID != 0 {
			q = q.Where("location_id = ?", filter.LocationID)
		}
		if filter.TransactionType != "" {
			q = q.Where("transaction_type = ?", filter.TransactionType)
		}
		return q
	}
	return ls.totals(base, "entry_date", filter, 0)
}

// BankTotals computes the summary for a bank transaction scope. The account's
// configured opening balance seeds the opening side.
func (ls *LedgerService) BankTotals(filter LedgerFilter) (LedgerTotals, error) {
	var baseOpening float64
	if filter.BankAccountID != 0 {
		var account models.BankAccount
		if err := database.DB.First(&account, filter.BankAccountID).Error; err != nil {
			return LedgerTotals{}, err
		}
		baseOpening = account.OpeningBalance
	}

	base := func() *gorm.DB {
		q := database.DB.Model(&models.BankTransaction{})
		if filter.BankAccountID != 0 {
			q = q.Where("bank_account_id = ?", filter.BankAccountID)
		}
		if filter.LocationID != 0 {
			q = q.Where("location_id = ?", filter.LocationID)
		}
		if filter.TransactionType != "" {
			q = q.Where("transaction_type = ?", filter.TransactionType)
		}
		return q
	}
	return ls.totals(base, "txn_date", filter, baseOpening)
}

// DirectorTotals computes the summary for a director ledger scope.
func (ls *LedgerService) DirectorTotals(filter LedgerFilter) (LedgerTotals, error) {
	base := func() *gorm.DB {
		q := database.DB.Model(&models.DirectorLedgerEntry{})
		if filter.LocationID != 0 {
			q = q.Where("location_id = ?", filter.LocationID)
		}
		if filter.TransactionType != "" {
			q = q.Where("transaction_type = ?", filter.TransactionType)
		}
		return q
	}
	return ls.totals(base, "entry_date", filter, 0)
}

func (ls *LedgerService) totals(base func() *gorm.DB, dateColumn string, filter LedgerFilter, baseOpening float64) (LedgerTotals, error) {
	filter.Year, filter.Month = NormalizePeriod(filter.Year, filter.Month)
	if filter.Year == 0 {
		row, err := ls.sum(base())
		if err != nil {
			return LedgerTotals{}, err
		}
		return BuildTotals(baseOpening, row.Credit, row.Debit), nil
	}

	start, end := PeriodRange(filter.Year, filter.Month)

	before, err := ls.sum(base().Where(dateColumn+" < ?", start))
	if err != nil {
		return LedgerTotals{}, err
	}
	opening := baseOpening + before.Credit - before.Debit

	period, err := ls.sum(base().Where(dateColumn+" >= ? AND "+dateColumn+" < ?", start, end))
	if err != nil {
		return LedgerTotals{}, err
	}

	return BuildTotals(opening, period.Credit, period.Debit), nil
}
