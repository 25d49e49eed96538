package normalize

// AttendanceRecord is the canonical flat attendance row rendered by the
// clock-in views.
type AttendanceRecord struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date"`
	ClockIn      string `json:"clockIn"`
	ClockOut     string `json:"clockOut"`
	Shift        string `json:"shift"`
	Status       string `json:"status"`
	Note         string `json:"note"`
}

// LeaveRecord is the canonical flat leave request row used by the
// approval queue.
type LeaveRecord struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	TeamLeadName string `json:"teamLeadName"`
	Type         string `json:"type"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// HandoverRecord is the canonical flat shift-handover report row.
type HandoverRecord struct {
	ID             string `json:"id"`
	AuthorID       string `json:"authorId"`
	AuthorName     string `json:"authorName"`
	ShiftDate      string `json:"shiftDate"`
	Summary        string `json:"summary"`
	Status         string `json:"status"`
	AcknowledgedBy string `json:"acknowledgedBy"`
	CreatedAt      string `json:"createdAt"`
}

// Attendance maps one raw attendance document to its canonical record.
// Safe on empty maps and nil nested fields.
func Attendance(m map[string]any) AttendanceRecord {
	if m == nil {
		return AttendanceRecord{}
	}
	return AttendanceRecord{
		ID:           ID(field(m, "_id", "id")),
		EmployeeID:   nestedID(m, []string{"user", "employee"}, "employeeId", "userId"),
		EmployeeName: displayName(m, []string{"user", "employee"}, "employeeName", "userName"),
		Date:         Date(field(m, "date", "attendanceDate")),
		ClockIn:      Date(field(m, "clockIn", "checkIn")),
		ClockOut:     Date(field(m, "clockOut", "checkOut")),
		Shift:        str(m, "shift"),
		Status:       Status(field(m, "status")),
		Note:         str(m, "note", "remarks"),
	}
}

// Leave maps one raw leave request document to its canonical record.
func Leave(m map[string]any) LeaveRecord {
	if m == nil {
		return LeaveRecord{}
	}
	return LeaveRecord{
		ID:           ID(field(m, "_id", "id")),
		EmployeeID:   nestedID(m, []string{"user", "employee"}, "employeeId", "userId"),
		EmployeeName: displayName(m, []string{"user", "employee"}, "employeeName", "userName"),
		TeamLeadName: displayName(m, []string{"teamlead", "teamLead"}, "teamLeadName"),
		Type:         Status(field(m, "type", "leaveType")),
		StartDate:    Date(field(m, "startDate", "from")),
		EndDate:      Date(field(m, "endDate", "to")),
		Reason:       str(m, "reason"),
		Status:       Status(field(m, "status")),
		CreatedAt:    Date(field(m, "createdAt", "created_at")),
	}
}

// Handover maps one raw shift-handover document to its canonical record.
func Handover(m map[string]any) HandoverRecord {
	if m == nil {
		return HandoverRecord{}
	}
	return HandoverRecord{
		ID:             ID(field(m, "_id", "id")),
		AuthorID:       nestedID(m, []string{"user", "author"}, "authorId", "userId"),
		AuthorName:     displayName(m, []string{"user", "author"}, "authorName"),
		ShiftDate:      Date(field(m, "shiftDate", "date")),
		Summary:        str(m, "summary", "notes"),
		Status:         Status(field(m, "status")),
		AcknowledgedBy: nestedID(m, []string{"acknowledger"}, "acknowledgedBy"),
		CreatedAt:      Date(field(m, "createdAt", "created_at")),
	}
}

// AttendanceList normalizes a slice of raw documents, skipping entries
// that are not objects.
func AttendanceList(raw []any) []AttendanceRecord {
	out := make([]AttendanceRecord, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, Attendance(m))
		}
	}
	return out
}

// LeaveList normalizes a slice of raw leave documents.
func LeaveList(raw []any) []LeaveRecord {
	out := make([]LeaveRecord, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, Leave(m))
		}
	}
	return out
}

// HandoverList normalizes a slice of raw handover documents.
func HandoverList(raw []any) []HandoverRecord {
	out := make([]HandoverRecord, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, Handover(m))
		}
	}
	return out
}
