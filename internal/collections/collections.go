// Package collections declares the durable shape of every synced collection:
// its wire key, table DDL, column set, JSON-encoded fields, boolean fields,
// field aliases and (for attendance/results) the composite natural key.
// The mirror codec and the sync endpoints consume these specs symmetrically.
package collections

const (
	Users        = "acportal_users"
	Files        = "acportal_files"
	Notices      = "acportal_notices"
	Classrooms   = "acportal_classrooms"
	Assignments  = "acportal_assignments"
	Submissions  = "acportal_submissions"
	QuizRooms    = "acportal_quiz_rooms"
	QuizAttempts = "acportal_quiz_attempts"
	ChatMessages = "acportal_chat_messages"
	AuditLogs    = "acportal_audit_logs"
	ExamEvents   = "acportal_exam_events"
	Attendance   = "acportal_attendance"
	Timetable    = "acportal_timetable"
	Results      = "acportal_results"
)

// CreatedAtColumn is the mirror-only bookkeeping column. It is filtered out of
// every outbound row and stripped from every decoded record.
const CreatedAtColumn = "created_at"

type Spec struct {
	Key     string
	DDL     string
	Columns []string

	// JSONFields hold nested lists/objects serialized to LONGTEXT.
	JSONFields []string
	// BoolFields are stored as TINYINT(1) and round-tripped through 0/1.
	// Names are column names (post-alias).
	BoolFields []string
	// Aliases map logical field name to column name, applied on encode and
	// reversed on decode.
	Aliases map[string]string
	// NaturalKey lists the columns of the composite upsert key; empty means
	// the collection upserts by id.
	NaturalKey []string
}

var specs = []Spec{
	{
		Key: Users,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_users (
  id          VARCHAR(100) PRIMARY KEY,
  role        VARCHAR(20)  NOT NULL,
  name        VARCHAR(255) NOT NULL,
  email       VARCHAR(255) NOT NULL UNIQUE,
  password    VARCHAR(255),
  usn         VARCHAR(100),
  semester    VARCHAR(10),
  program     VARCHAR(100),
  section     VARCHAR(10),
  allocations LONGTEXT,
  avatar      VARCHAR(10),
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "role", "name", "email", "password", "usn",
			"semester", "program", "section", "allocations", "avatar", CreatedAtColumn},
		JSONFields: []string{"allocations"},
	},
	{
		Key: Files,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_files (
  id            VARCHAR(100) PRIMARY KEY,
  name          VARCHAR(500) NOT NULL,
  subject       VARCHAR(255),
  subjectName   VARCHAR(255),
  unit          VARCHAR(100),
  semester      VARCHAR(10),
  status        VARCHAR(20) DEFAULT 'pending',
  uploadedBy    VARCHAR(255),
  uploaderId    VARCHAR(100),
  uploaderRole  VARCHAR(20),
  downloads     INT DEFAULT 0,
  uploadDate    DATETIME,
  fileData      LONGTEXT,
  fileType      VARCHAR(100),
  created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "name", "subject", "subjectName", "unit", "semester",
			"status", "uploadedBy", "uploaderId", "uploaderRole", "downloads",
			"uploadDate", "fileData", "fileType", CreatedAtColumn},
	},
	{
		Key: Notices,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_notices (
  id          VARCHAR(100) PRIMARY KEY,
  title       VARCHAR(500) NOT NULL,
  content     TEXT,
  category    VARCHAR(100),
  priority    VARCHAR(20),
  urgent      TINYINT(1) DEFAULT 0,
  postedBy    VARCHAR(255),
  posterId    VARCHAR(100),
  postedDate  DATETIME,
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "title", "content", "category", "priority", "urgent",
			"postedBy", "posterId", "postedDate", CreatedAtColumn},
		BoolFields: []string{"urgent"},
	},
	{
		Key: Classrooms,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_classrooms (
  id          VARCHAR(100) PRIMARY KEY,
  name        VARCHAR(500) NOT NULL,
  subject     VARCHAR(255),
  teacherId   VARCHAR(100),
  teacherName VARCHAR(255),
  studentIds  LONGTEXT,
  notes       LONGTEXT,
  createdAt   DATETIME,
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "name", "subject", "teacherId", "teacherName",
			"studentIds", "notes", "createdAt", CreatedAtColumn},
		JSONFields: []string{"studentIds", "notes"},
	},
	{
		Key: Assignments,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_assignments (
  id           VARCHAR(100) PRIMARY KEY,
  classroomId  VARCHAR(100),
  title        VARCHAR(500) NOT NULL,
  description  TEXT,
  dueDate      VARCHAR(50),
  createdBy    VARCHAR(255),
  createdById  VARCHAR(100),
  createdAt    DATETIME,
  created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "classroomId", "title", "description", "dueDate",
			"createdBy", "createdById", "createdAt", CreatedAtColumn},
	},
	{
		Key: Submissions,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_submissions (
  id            VARCHAR(100) PRIMARY KEY,
  assignmentId  VARCHAR(100),
  studentId     VARCHAR(100),
  studentName   VARCHAR(255),
  studentUsn    VARCHAR(100),
  fileName      VARCHAR(500),
  fileData      LONGTEXT,
  fileType      VARCHAR(100),
  submittedAt   DATETIME,
  created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "assignmentId", "studentId", "studentName",
			"studentUsn", "fileName", "fileData", "fileType", "submittedAt", CreatedAtColumn},
	},
	{
		Key: QuizRooms,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_quiz_rooms (
  id          VARCHAR(100) PRIMARY KEY,
  code        VARCHAR(10) UNIQUE,
  title       VARCHAR(500) NOT NULL,
  teacherId   VARCHAR(100),
  teacherName VARCHAR(255),
  questions   LONGTEXT,
  status      VARCHAR(20) DEFAULT 'open',
  createdAt   DATETIME,
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "code", "title", "teacherId", "teacherName",
			"questions", "status", "createdAt", CreatedAtColumn},
		JSONFields: []string{"questions"},
	},
	{
		Key: QuizAttempts,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_quiz_attempts (
  id           VARCHAR(100) PRIMARY KEY,
  roomId       VARCHAR(100),
  studentId    VARCHAR(100),
  studentName  VARCHAR(255),
  studentUsn   VARCHAR(100),
  answers      LONGTEXT,
  score        INT DEFAULT 0,
  total        INT DEFAULT 0,
  submittedAt  DATETIME,
  created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "roomId", "studentId", "studentName", "studentUsn",
			"answers", "score", "total", "submittedAt", CreatedAtColumn},
		JSONFields: []string{"answers"},
	},
	{
		Key: ChatMessages,
		DDL: "CREATE TABLE IF NOT EXISTS acportal_chat_messages (\n" +
			"  id          VARCHAR(100) PRIMARY KEY,\n" +
			"  `key`       VARCHAR(200),\n" +
			"  senderId    VARCHAR(100),\n" +
			"  senderName  VARCHAR(255),\n" +
			"  senderRole  VARCHAR(20),\n" +
			"  receiverId  VARCHAR(100),\n" +
			"  text        TEXT,\n" +
			"  timestamp   DATETIME,\n" +
			"  isRead      TINYINT(1) DEFAULT 0,\n" +
			"  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP\n" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		Columns: []string{"id", "key", "senderId", "senderName", "senderRole",
			"receiverId", "text", "timestamp", "isRead", CreatedAtColumn},
		BoolFields: []string{"isRead"},
		Aliases:    map[string]string{"read": "isRead"},
	},
	{
		Key: AuditLogs,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_audit_logs (
  id         VARCHAR(100) PRIMARY KEY,
  action     VARCHAR(100),
  userId     VARCHAR(100),
  userName   VARCHAR(255),
  role       VARCHAR(20),
  detail     TEXT,
  timestamp  DATETIME,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "action", "userId", "userName", "role", "detail",
			"timestamp", CreatedAtColumn},
	},
	{
		Key: ExamEvents,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_exam_events (
  id           VARCHAR(100) PRIMARY KEY,
  title        VARCHAR(500) NOT NULL,
  details      TEXT,
  type         VARCHAR(20) DEFAULT 'event',
  startDate    DATE,
  endDate      DATE,
  createdBy    VARCHAR(255),
  createdById  VARCHAR(100),
  createdAt    DATETIME,
  created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "title", "details", "type", "startDate", "endDate",
			"createdBy", "createdById", "createdAt", CreatedAtColumn},
	},
	{
		Key: Attendance,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_attendance (
  id          VARCHAR(100) PRIMARY KEY,
  date        VARCHAR(20),
  courseId    VARCHAR(100),
  studentId   VARCHAR(100),
  status      VARCHAR(20),
  takenBy     VARCHAR(100),
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uniq_attendance (date, courseId, studentId)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "date", "courseId", "studentId", "status", "takenBy",
			CreatedAtColumn},
		NaturalKey: []string{"date", "courseId", "studentId"},
	},
	{
		Key: Timetable,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_timetable (
  id          VARCHAR(100) PRIMARY KEY,
  dayOfWeek   VARCHAR(20),
  startTime   VARCHAR(20),
  endTime     VARCHAR(20),
  courseId    VARCHAR(100),
  room        VARCHAR(100),
  teacherId   VARCHAR(100),
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "dayOfWeek", "startTime", "endTime", "courseId",
			"room", "teacherId", CreatedAtColumn},
	},
	{
		Key: Results,
		DDL: `CREATE TABLE IF NOT EXISTS acportal_results (
  id              VARCHAR(100) PRIMARY KEY,
  assessmentName  VARCHAR(255),
  courseId        VARCHAR(100),
  program         VARCHAR(255),
  studentGroup    VARCHAR(100),
  studentId       VARCHAR(100),
  theoryScore     VARCHAR(20),
  vivaScore       VARCHAR(20),
  comments        TEXT,
  totalScore      VARCHAR(20),
  grade           VARCHAR(10),
  created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uniq_result (assessmentName, courseId, studentId)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		Columns: []string{"id", "assessmentName", "courseId", "program",
			"studentGroup", "studentId", "theoryScore", "vivaScore", "comments",
			"totalScore", "grade", CreatedAtColumn},
		NaturalKey: []string{"assessmentName", "courseId", "studentId"},
	},
}

var byKey = func() map[string]Spec {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Key] = s
	}
	return m
}()

// All returns every collection spec in declaration order.
func All() []Spec { return specs }

// Keys returns every synced collection key in declaration order.
func Keys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.Key
	}
	return keys
}

// ByKey looks up a spec by its wire key.
func ByKey(key string) (Spec, bool) {
	s, ok := byKey[key]
	return s, ok
}

// HasColumn reports whether the column belongs to the collection's durable set.
func (s Spec) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}
