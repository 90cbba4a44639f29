// Package models defines the record shapes held in the local store. JSON tags
// follow the wire field names; timestamps travel as ISO 8601 strings.
package models

const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

const (
	FileStatusPending  = "pending"
	FileStatusApproved = "approved"
)

const (
	QuizStatusOpen   = "open"
	QuizStatusClosed = "closed"
)

type Allocation struct {
	Program  string   `json:"program"`
	Section  string   `json:"section"`
	Subjects []string `json:"subjects"`
}

type User struct {
	ID          string       `json:"id"`
	Role        string       `json:"role"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Password    string       `json:"password,omitempty"`
	USN         string       `json:"usn,omitempty"`
	Semester    string       `json:"semester,omitempty"`
	Program     string       `json:"program,omitempty"`
	Section     string       `json:"section,omitempty"`
	Allocations []Allocation `json:"allocations,omitempty"`
	Avatar      string       `json:"avatar,omitempty"`
}

// Sanitized returns a copy safe for responses and audit context.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Subject      string `json:"subject,omitempty"`
	SubjectName  string `json:"subjectName,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Semester     string `json:"semester,omitempty"`
	Status       string `json:"status"`
	UploadedBy   string `json:"uploadedBy,omitempty"`
	UploaderID   string `json:"uploaderId,omitempty"`
	UploaderRole string `json:"uploaderRole,omitempty"`
	Downloads    int    `json:"downloads"`
	UploadDate   string `json:"uploadDate,omitempty"`
	FileData     string `json:"fileData,omitempty"`
	FileType     string `json:"fileType,omitempty"`
}

type Notice struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
	Category   string `json:"category,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Urgent     bool   `json:"urgent"`
	PostedBy   string `json:"postedBy,omitempty"`
	PosterID   string `json:"posterId,omitempty"`
	PostedDate string `json:"postedDate,omitempty"`
}

type Note struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FileData   string `json:"fileData,omitempty"`
	Type       string `json:"type,omitempty"`
	UploadedBy string `json:"uploadedBy,omitempty"`
	UploadedAt string `json:"uploadedAt,omitempty"`
}

type Classroom struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Subject     string   `json:"subject,omitempty"`
	TeacherID   string   `json:"teacherId,omitempty"`
	TeacherName string   `json:"teacherName,omitempty"`
	StudentIDs  []string `json:"studentIds"`
	Notes       []Note   `json:"notes"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

type Assignment struct {
	ID          string `json:"id"`
	ClassroomID string `json:"classroomId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
	CreatedByID string `json:"createdById,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type Submission struct {
	ID           string `json:"id"`
	AssignmentID string `json:"assignmentId"`
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName,omitempty"`
	StudentUSN   string `json:"studentUsn,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	FileData     string `json:"fileData,omitempty"`
	FileType     string `json:"fileType,omitempty"`
	SubmittedAt  string `json:"submittedAt,omitempty"`
}

type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type QuizRoom struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	TeacherID   string     `json:"teacherId,omitempty"`
	TeacherName string     `json:"teacherName,omitempty"`
	Questions   []Question `json:"questions"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"createdAt,omitempty"`
}

// QuizAttempt answers are keyed by question index (JSON object keys are
// strings even when the client indexes numerically).
type QuizAttempt struct {
	ID          string         `json:"id"`
	RoomID      string         `json:"roomId"`
	StudentID   string         `json:"studentId"`
	StudentName string         `json:"studentName,omitempty"`
	StudentUSN  string         `json:"studentUsn,omitempty"`
	Answers     map[string]int `json:"answers"`
	Score       int            `json:"score"`
	Total       int            `json:"total"`
	SubmittedAt string         `json:"submittedAt,omitempty"`
}

// ChatMessage.Key is the derived conversation identifier: both participant
// ids sorted and joined with an underscore.
type ChatMessage struct {
	ID         string `json:"id"`
	Key        string `json:"key"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
	SenderRole string `json:"senderRole,omitempty"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp,omitempty"`
	Read       bool   `json:"read"`
}

type AuditEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Role      string `json:"role"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

type ExamEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Details     string `json:"details,omitempty"`
	Type        string `json:"type"` // "exam" or "event"
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	CreatedBy   string `json:"createdBy,omitempty"`
	CreatedByID string `json:"createdById,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type AttendanceRecord struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
	TakenBy   string `json:"takenBy,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type TimetableEntry struct {
	ID        string `json:"id"`
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	CourseID  string `json:"courseId"`
	Subject   string `json:"sub,omitempty"`
	Name      string `json:"name,omitempty"`
	Room      string `json:"room,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	TeacherID string `json:"teacherId,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Result struct {
	ID             string `json:"id"`
	AssessmentName string `json:"assessmentName"`
	CourseID       string `json:"courseId"`
	Program        string `json:"program,omitempty"`
	StudentGroup   string `json:"studentGroup,omitempty"`
	StudentID      string `json:"studentId"`
	TheoryScore    string `json:"theoryScore,omitempty"`
	VivaScore      string `json:"vivaScore,omitempty"`
	Comments       string `json:"comments,omitempty"`
	TotalScore     string `json:"totalScore,omitempty"`
	Grade          string `json:"grade,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}
