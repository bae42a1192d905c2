package models

import "time"

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "PENDING"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceResolved   MaintenanceStatus = "RESOLVED"
	MaintenanceRejected   MaintenanceStatus = "REJECTED"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceResolved, MaintenanceRejected:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "PENDING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectRejected   ProjectStatus = "REJECTED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectRejected:
		return true
	}
	return false
}

type ResultType string

const (
	ResultLink ResultType = "LINK"
	ResultFile ResultType = "FILE"
)

// CategoryOther marks a maintenance issue whose category is carried in OtherCategory.
const CategoryOther = "Other"

type MaintenanceIssue struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Category      string            `gorm:"column:kategori;size:100;not null" json:"kategori"`
	OtherCategory *string           `gorm:"column:other_kategori;size:100" json:"otherKategori"`
	Problem       string            `gorm:"column:jenis_masalah;size:200;not null" json:"jenis_masalah"`
	Description   string            `gorm:"column:deskripsi;type:text;not null" json:"deskripsi"`
	Status        MaintenanceStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Deadline      *time.Time        `json:"deadline"`
	UserID        uint              `gorm:"index;not null" json:"userId"`
	User          *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type ProjectItem struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	FileOrLink  *string       `gorm:"type:text" json:"fileOrLink"`
	Status      ProjectStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Deadline    *time.Time    `json:"deadline"`
	ResultType  *ResultType   `gorm:"size:10" json:"resultType"`
	ResultValue *string       `gorm:"type:text" json:"resultValue"`
	ResultName  *string       `gorm:"size:255" json:"resultName"`
	UserID      uint          `gorm:"index;not null" json:"userId"`
	User        *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type EventType string

const (
	EventCustom              EventType = "custom"
	EventDeadlineMaintenance EventType = "deadline_maintenance"
	EventDeadlineProject     EventType = "deadline_project"
)

// Derived reports whether the event is maintained by its source record.
func (t EventType) Derived() bool {
	return t == EventDeadlineMaintenance || t == EventDeadlineProject
}

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:20;not null;default:blue" json:"color"`
	EventType   EventType `gorm:"size:30;not null;default:custom;index:idx_event_ref" json:"eventType"`
	ReferenceID *uint     `gorm:"index:idx_event_ref" json:"referenceId"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SubjectType string

const (
	SubjectMaintenance SubjectType = "maintenance"
	SubjectProject     SubjectType = "project"
)

type Message struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	SenderID    uint         `gorm:"index;not null" json:"senderId"`
	Sender      *User        `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID  uint         `gorm:"index;not null" json:"receiverId"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	SubjectType *SubjectType `gorm:"size:20" json:"subjectType"`
	SubjectID   *uint        `json:"subjectId"`
	IsRead      bool         `gorm:"not null;default:false" json:"isRead"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
}

type NotificationType string

const (
	NotifyMaintenanceStatus NotificationType = "maintenance_status"
	NotifyProjectStatus     NotificationType = "project_status"
	NotifyChat              NotificationType = "chat"
)

type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserID      uint             `gorm:"index;not null" json:"userId"`
	Type        NotificationType `gorm:"size:30;not null" json:"type"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	IsRead      bool             `gorm:"not null;default:false" json:"isRead"`
	ReferenceID *uint            `json:"referenceId"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
}

type LogStatus string

const (
	LogSuccess LogStatus = "SUCCESS"
	LogFailure LogStatus = "FAILURE"
)

type Log struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string    `gorm:"size:50;not null;index" json:"type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Status      LogStatus `gorm:"size:10;not null" json:"status"`
	IP          string    `gorm:"size:64" json:"ip"`
	Metadata    JSONB     `json:"metadata,omitempty"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}

type EntityType string

const (
	EntityMaintenance   EntityType = "maintenance"
	EntityProject       EntityType = "project"
	EntityProjectResult EntityType = "project_result"
)

type FileUpload struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EntityType   EntityType `gorm:"size:30;not null;index:idx_file_entity" json:"entityType"`
	EntityID     uint       `gorm:"not null;index:idx_file_entity" json:"entityId"`
	FileName     string     `gorm:"size:255;not null" json:"fileName"`
	FileType     string     `gorm:"size:100" json:"fileType"`
	FileSize     int64      `json:"fileSize"`
	FilePath     string     `gorm:"size:500;not null" json:"filePath"`
	UploadedByID uint       `gorm:"index;not null" json:"uploadedById"`
	CreatedAt    time.Time  `json:"createdAt"`
}
