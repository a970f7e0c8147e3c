package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DateLayout is the persisted and rendered form of a post's creation time.
const DateLayout = "2006-01-02 15:04:05"

// Timestamp is a local wall-clock time with second resolution that is
// written to every dialect in DateLayout.
type Timestamp struct {
	time.Time
}

// NewTimestamp drops the monotonic reading and everything below one second.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Round(0).Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Format(DateLayout)
}

// Value implements the driver.Valuer interface for writing to the database.
func (t Timestamp) Value() (driver.Value, error) {
	return t.Format(DateLayout), nil
}

// Scan implements the sql.Scanner interface for reading from the database.
// MySQL (parseTime=true) and PostgreSQL hand back time.Time, SQLite hands back text.
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), 0, time.Local)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return errors.New("Timestamp: unsupported scan type")
	}
}

func (t *Timestamp) parse(s string) error {
	parsed, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// GormDBDataType picks a column type per dialect. SQLite keeps text so the
// driver does not rewrite the value into its own time format.
func (Timestamp) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "datetime"
	case "postgres":
		return "timestamp"
	default:
		return "varchar(19)"
	}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(DateLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}
