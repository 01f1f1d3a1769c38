package model

// Department 院系（只读目录）
type Department struct {
	DepartmentID string `gorm:"type:varchar(32);primaryKey"    json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"     json:"name"`
	Timestamps
}

func (Department) TableName() string { return "departments" }

// Course 课程 — 对应 courses
type Course struct {
	CourseID        string `gorm:"type:varchar(32);primaryKey"  json:"course_id"`
	DepartmentID    string `gorm:"type:varchar(32);not null"    json:"department_id"`
	CourseName      string `gorm:"type:varchar(200);not null"   json:"course_name"`
	DurationMinutes int    `gorm:"not null"                     json:"duration_minutes"`
	IsCore          bool   `gorm:"not null;default:false"       json:"is_core"`
	Timestamps
}

func (Course) TableName() string { return "courses" }

// CourseSemester 课程开设学期 — 对应 course_semesters
type CourseSemester struct {
	CourseID   string `gorm:"type:varchar(32);primaryKey" json:"course_id"`
	SemesterID string `gorm:"type:varchar(32);primaryKey" json:"semester_id"`
}

func (CourseSemester) TableName() string { return "course_semesters" }

// Professor 教师 — 对应 professors
type Professor struct {
	ProfessorID  string `gorm:"type:varchar(32);primaryKey"       json:"professor_id"`
	DepartmentID string `gorm:"type:varchar(32);not null"         json:"department_id"`
	FirstName    string `gorm:"type:varchar(100);not null"        json:"first_name"`
	LastName     string `gorm:"type:varchar(100);not null"        json:"last_name"`
	Email        string `gorm:"type:varchar(200);not null;unique" json:"email"`
	Timestamps
}

func (Professor) TableName() string { return "professors" }

// FullName 展示用姓名
func (p *Professor) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProfessorCourse 教师可授课程 — 对应 professor_courses
type ProfessorCourse struct {
	ProfessorID string `gorm:"type:varchar(32);primaryKey" json:"professor_id"`
	CourseID    string `gorm:"type:varchar(32);primaryKey" json:"course_id"`
}

func (ProfessorCourse) TableName() string { return "professor_courses" }
