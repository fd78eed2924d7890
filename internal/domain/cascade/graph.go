package cascade

type Table string

const (
	Users          Table = "users"
	Services       Table = "services"
	Bookings       Table = "bookings"
	Kits           Table = "kits"
	TestResults    Table = "test_results"
	Invoices       Table = "invoices"
	InvoiceDetails Table = "invoice_details"
	Relatives      Table = "relatives"
	Feedbacks      Table = "feedbacks"
	Notifications  Table = "notifications"
	Courses        Table = "courses"
)

type Action int

const (
	Delete Action = iota
	Nullify
)

// Edge says that rows of Child reference the parent through ForeignKey.
// BestEffort edges may fail without aborting the surrounding delete.
type Edge struct {
	Child      Table
	ForeignKey string
	Action     Action
	BestEffort bool
}

// Graph maps a parent table to its dependents. Edges are walked in order and
// always before the parent rows are removed.
type Graph map[Table][]Edge

var Ownership = Graph{
	Invoices: {
		{Child: InvoiceDetails, ForeignKey: "invoice_id", Action: Delete},
	},
	Bookings: {
		{Child: Invoices, ForeignKey: "booking_id", Action: Delete},
		{Child: Kits, ForeignKey: "booking_id", Action: Delete},
		{Child: TestResults, ForeignKey: "booking_id", Action: Delete},
		{Child: Relatives, ForeignKey: "booking_id", Action: Delete},
	},
	Services: {
		{Child: TestResults, ForeignKey: "service_id", Action: Delete},
		{Child: Bookings, ForeignKey: "service_id", Action: Delete},
		{Child: InvoiceDetails, ForeignKey: "service_id", Action: Delete},
		{Child: Feedbacks, ForeignKey: "service_id", Action: Delete},
	},
	Users: {
		// Notification cleanup never blocks a user delete.
		{Child: Notifications, ForeignKey: "user_id", Action: Delete, BestEffort: true},
		{Child: Relatives, ForeignKey: "user_id", Action: Delete},
		{Child: Bookings, ForeignKey: "customer_id", Action: Delete},
		{Child: Bookings, ForeignKey: "staff_id", Action: Nullify},
		{Child: TestResults, ForeignKey: "customer_id", Action: Delete},
		{Child: TestResults, ForeignKey: "staff_id", Action: Delete},
		{Child: Kits, ForeignKey: "customer_id", Action: Delete},
		{Child: Kits, ForeignKey: "staff_id", Action: Delete},
		{Child: Feedbacks, ForeignKey: "user_id", Action: Delete},
		{Child: Courses, ForeignKey: "manager_id", Action: Nullify},
	},
}

var labels = map[Table]string{
	Users:          "người dùng",
	Services:       "dịch vụ",
	Bookings:       "lịch hẹn",
	Kits:           "kit",
	TestResults:    "kết quả xét nghiệm",
	Invoices:       "hóa đơn",
	InvoiceDetails: "chi tiết hóa đơn",
	Relatives:      "người thân",
	Feedbacks:      "phản hồi",
	Notifications:  "thông báo",
	Courses:        "khóa học",
}

// Label is the Vietnamese display name of a table.
func (t Table) Label() string {
	if label, ok := labels[t]; ok {
		return label
	}
	return string(t)
}
