package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Fee actions applied during a batch switch
const (
	FeeActionTransfer = "TRANSFER"
	FeeActionNewFee   = "NEW_FEE"
	FeeActionSplit    = "SPLIT"
)

// Entry types shared by cashbook, bank and director ledgers
const (
	EntryTypeDebit  = "DEBIT"
	EntryTypeCredit = "CREDIT"
)

// Payment statuses
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusOverdue   = "OVERDUE"
)

// Location model - one physical or virtual campus of the institute
type Location struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null"`
	Code        string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Address     string `json:"address" gorm:"size:500"`
	Phone       string `json:"phone" gorm:"size:20"`
	LineGroupID string `json:"line_group_id" gorm:"size:100"`
	Active      bool   `json:"active" gorm:"default:true"`

	// Relationships
	Users    []User    `json:"users,omitempty" gorm:"foreignKey:LocationID"`
	Courses  []Course  `json:"courses,omitempty" gorm:"foreignKey:LocationID"`
	Batches  []Batch   `json:"batches,omitempty" gorm:"foreignKey:LocationID"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:LocationID"`
}

// User model - dashboard operators
type User struct {
	BaseModel
	Username   string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password   string `json:"-" gorm:"size:255;not null"`
	Email      string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone      string `json:"phone" gorm:"size:20"`
	Role       string `json:"role" gorm:"size:50;not null;default:'staff';type:enum('owner','admin','accountant','staff')"` // owner, admin, accountant, staff
	LocationID uint   `json:"location_id" gorm:"not null"`
	Status     string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"` // active, inactive, suspended
	Avatar     string `json:"avatar" gorm:"size:500"`

	// Relationships
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// Course model
type Course struct {
	BaseModel
	Name           string  `json:"name" gorm:"size:255;not null"`
	Code           string  `json:"code" gorm:"size:100;uniqueIndex"`
	Description    string  `json:"description" gorm:"type:text"`
	DurationMonths int     `json:"duration_months"`
	BaseFee        float64 `json:"base_fee" gorm:"type:decimal(12,2);not null;default:0"`
	LocationID     uint    `json:"location_id"`
	Status         string  `json:"status" gorm:"size:50;default:'active';type:enum('active','inactive')"` // active, inactive

	// Relationships
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Batches  []Batch  `json:"batches,omitempty" gorm:"foreignKey:CourseID"`
}

// Batch model - a scheduled offering of a course at a location
type Batch struct {
	BaseModel
	CourseID      uint       `json:"course_id" gorm:"not null"`
	LocationID    uint       `json:"location_id" gorm:"not null"`
	Name          string     `json:"name" gorm:"size:255;not null"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	ScheduleNote  string     `json:"schedule_note" gorm:"size:255"`
	SlotLimit     int        `json:"slot_limit" gorm:"not null;default:20"`
	EnrolledCount int        `json:"enrolled_count" gorm:"not null;default:0"`
	CourseFee     float64    `json:"course_fee" gorm:"type:decimal(12,2);not null;default:0"` // batch price, defaults from course BaseFee
	Status        string     `json:"status" gorm:"size:50;default:'ACTIVE';type:enum('ACTIVE','COMPLETED','CANCELLED')"` // ACTIVE, COMPLETED, CANCELLED

	// Relationships
	Course   Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// HasCapacity reports whether the batch can take one more student.
func (b *Batch) HasCapacity() bool {
	return b.SlotLimit <= 0 || b.EnrolledCount < b.SlotLimit
}

// Student model
type Student struct {
	BaseModel
	FirstName       string     `json:"first_name" gorm:"size:100;not null"`
	LastName        string     `json:"last_name" gorm:"size:100"`
	Email           string     `json:"email" gorm:"size:255"`
	Phone           string     `json:"phone" gorm:"size:20"`
	Address         string     `json:"address" gorm:"size:500"`
	GuardianName    string     `json:"guardian_name" gorm:"size:200"`
	GuardianPhone   string     `json:"guardian_phone" gorm:"size:20"`
	AdmissionDate   *time.Time `json:"admission_date"`
	CurrentBatchID  *uint      `json:"current_batch_id"`
	LocationID      uint       `json:"location_id" gorm:"not null"`
	IsFundedAccount bool       `json:"is_funded_account" gorm:"default:false"`
	Status          string     `json:"status" gorm:"size:50;default:'active';type:enum('active','inactive','completed','dropped')"` // active, inactive, completed, dropped
	Notes           string     `json:"notes" gorm:"type:text"`

	// Relationships
	CurrentBatch *Batch   `json:"current_batch,omitempty" gorm:"foreignKey:CurrentBatchID"`
	Location     Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Fees         []Fee    `json:"fees,omitempty" gorm:"foreignKey:StudentID"`
}

// Fee model - the financial record of one batch enrollment
type Fee struct {
	BaseModel
	StudentID      uint    `json:"student_id" gorm:"not null;index"`
	BatchID        uint    `json:"batch_id" gorm:"not null;index"`
	TotalCourseFee float64 `json:"total_course_fee" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount float64 `json:"discount_amount" gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceAmount  float64 `json:"advance_amount" gorm:"type:decimal(12,2);not null;default:0"`
	FinalFee       float64 `json:"final_fee" gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount     float64 `json:"paid_amount" gorm:"type:decimal(12,2);not null;default:0"`
	BalanceAmount  float64 `json:"balance_amount" gorm:"type:decimal(12,2);not null;default:0"`
	FeePaymentMode string  `json:"fee_payment_mode" gorm:"size:50;default:'FULL';type:enum('FULL','INSTALLMENT')"` // FULL, INSTALLMENT
	Status         string  `json:"status" gorm:"size:50;default:'ACTIVE';type:enum('ACTIVE','CLOSED')"`            // ACTIVE, CLOSED

	// Relationships
	Student  Student   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Batch    Batch     `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:FeeID"`
}

// Payment model
type Payment struct {
	BaseModel
	FeeID         uint       `json:"fee_id" gorm:"not null;index"`
	Amount        float64    `json:"amount" gorm:"type:decimal(12,2);not null"`
	Mode          string     `json:"mode" gorm:"size:50;not null;type:enum('CASH','BANK_TRANSFER','UPI','CARD','CHEQUE')"` // CASH, BANK_TRANSFER, UPI, CARD, CHEQUE
	PaidAt        *time.Time `json:"paid_at"`
	DueDate       *time.Time `json:"due_date"`
	Status        string     `json:"status" gorm:"size:50;not null;default:'PENDING';type:enum('PENDING','COMPLETED','FAILED','OVERDUE')"` // PENDING, COMPLETED, FAILED, OVERDUE
	ReceiptNumber string     `json:"receipt_number" gorm:"size:100;uniqueIndex"`
	ReceiptURL    string     `json:"receipt_url" gorm:"size:500"`
	Notes         string     `json:"notes" gorm:"size:500"`

	// Relationships
	Fee Fee `json:"fee,omitempty" gorm:"foreignKey:FeeID"`
}

// BatchHistory model - one batch-switch event, created exactly once per switch
type BatchHistory struct {
	BaseModel
	StudentID   uint      `json:"student_id" gorm:"not null;index"`
	FromBatchID uint      `json:"from_batch_id" gorm:"not null"`
	ToBatchID   uint      `json:"to_batch_id" gorm:"not null"`
	FromFeeID   *uint     `json:"from_fee_id"`
	ToFeeID     *uint     `json:"to_fee_id"`
	ChangeDate  time.Time `json:"change_date" gorm:"not null"`
	Reason      string    `json:"reason" gorm:"size:500;not null"`
	FeeAction   string    `json:"fee_action" gorm:"size:50;not null;type:enum('TRANSFER','NEW_FEE','SPLIT')"` // TRANSFER, NEW_FEE, SPLIT

	// Relationships
	Student   Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	FromBatch Batch   `json:"from_batch,omitempty" gorm:"foreignKey:FromBatchID"`
	ToBatch   Batch   `json:"to_batch,omitempty" gorm:"foreignKey:ToBatchID"`
}

// CashbookEntry model - location-scoped cash ledger, immutable once posted
type CashbookEntry struct {
	BaseModel
	LocationID      uint      `json:"location_id" gorm:"not null;index"`
	EntryDate       time.Time `json:"entry_date" gorm:"not null;index"`
	EntryType       string    `json:"entry_type" gorm:"size:10;not null;type:enum('DEBIT','CREDIT')"` // DEBIT, CREDIT
	TransactionType string    `json:"transaction_type" gorm:"size:50;not null;type:enum('STUDENT_PAID','OFFICE_EXPENSE','SALARY_PAID','OWNER_TAKEN','OWNER_GAVE','BANK_DEPOSIT','BANK_WITHDRAWAL','OTHER')"`
	Amount          float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description     string    `json:"description" gorm:"size:500"`
	PaymentID       *uint     `json:"payment_id"`
	CreatedBy       uint      `json:"created_by"`

	// Relationships
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// BankAccount model
type BankAccount struct {
	BaseModel
	LocationID     uint    `json:"location_id" gorm:"not null"`
	BankName       string  `json:"bank_name" gorm:"size:255;not null"`
	AccountName    string  `json:"account_name" gorm:"size:255;not null"`
	AccountNumber  string  `json:"account_number" gorm:"size:50;not null;uniqueIndex"`
	BranchCode     string  `json:"branch_code" gorm:"size:50"`
	OpeningBalance float64 `json:"opening_balance" gorm:"type:decimal(12,2);not null;default:0"`
	Active         bool    `json:"active" gorm:"default:true"`

	// Relationships
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// BankTransaction model - per-account ledger, immutable once posted
type BankTransaction struct {
	BaseModel
	BankAccountID   uint      `json:"bank_account_id" gorm:"not null;index"`
	LocationID      uint      `json:"location_id" gorm:"not null;index"`
	TxnDate         time.Time `json:"txn_date" gorm:"not null;index"`
	EntryType       string    `json:"entry_type" gorm:"size:10;not null;type:enum('DEBIT','CREDIT')"` // DEBIT, CREDIT
	TransactionType string    `json:"transaction_type" gorm:"size:50;not null;type:enum('INSTITUTION_GAVE_BANK','INSTITUTION_TOOK_BANK','STUDENT_PAID_BANK','BANK_CHARGES','INTEREST_CREDIT','OTHER')"`
	Amount          float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Reference       string    `json:"reference" gorm:"size:100"`
	Description     string    `json:"description" gorm:"size:500"`
	CreatedBy       uint      `json:"created_by"`

	// Relationships
	BankAccount BankAccount `json:"bank_account,omitempty" gorm:"foreignKey:BankAccountID"`
	Location    Location    `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// DirectorLedgerEntry model - money moved between the directors and the institute
type DirectorLedgerEntry struct {
	BaseModel
	LocationID      uint      `json:"location_id" gorm:"not null;index"`
	EntryDate       time.Time `json:"entry_date" gorm:"not null;index"`
	EntryType       string    `json:"entry_type" gorm:"size:10;not null;type:enum('DEBIT','CREDIT')"` // DEBIT, CREDIT
	TransactionType string    `json:"transaction_type" gorm:"size:50;not null;type:enum('OWNER_TAKEN','OWNER_GAVE','EXPENSE_REIMBURSED','OTHER')"`
	Amount          float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description     string    `json:"description" gorm:"size:500"`
	CreatedBy       uint      `json:"created_by"`

	// Relationships
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// CommunicationLog model - outbound messages to students
type CommunicationLog struct {
	BaseModel
	StudentID  *uint  `json:"student_id" gorm:"index"`
	LocationID uint   `json:"location_id" gorm:"not null"`
	Channel    string `json:"channel" gorm:"size:50;not null;type:enum('SMS','EMAIL','LINE','CALL','WHATSAPP')"` // SMS, EMAIL, LINE, CALL, WHATSAPP
	Subject    string `json:"subject" gorm:"size:255"`
	Message    string `json:"message" gorm:"type:text;not null"`
	Status     string `json:"status" gorm:"size:50;not null;default:'SENT';type:enum('SENT','FAILED')"` // SENT, FAILED
	Error      string `json:"error" gorm:"size:500"`
	SentBy     uint   `json:"sent_by"`

	// Relationships
	Student  *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Location Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
