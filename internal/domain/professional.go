package domain

import (
	"github.com/uptrace/bun"
)

// Professional is a bookable provider as supplied by the directory. The
// booking core treats it as immutable input.
type Professional struct {
	bun.BaseModel `bun:"table:professionals"`

	ID                 int64  `bun:"id,pk"`
	Name               string `bun:"name,notnull"`
	Profession         string `bun:"profession,notnull"`
	AppointmentSpacing string `bun:"appointment_spacing,notnull"`
	ServiceName        string `bun:"service_name,notnull"`

	Schedules []WeeklySchedule `bun:"rel:has-many,join:id=professional_id"`
}

// WeeklySchedule is one contiguous working window for one day of the week.
// A professional may carry duplicate entries for the same weekday; lookup
// takes the first match.
type WeeklySchedule struct {
	bun.BaseModel `bun:"table:weekly_schedules"`

	ID             int64  `bun:"id,pk,autoincrement"`
	ProfessionalID int64  `bun:"professional_id,notnull"`
	StartTime      string `bun:"start_time,notnull"`
	EndTime        string `bun:"end_time,notnull"`
	Weekday        string `bun:"weekday,notnull"`
	WeekdayKey     string `bun:"weekday_key,notnull"`
}
