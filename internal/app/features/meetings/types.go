// internal/app/features/meetings/types.go
package meetings

import (
	"html/template"

	"github.com/gmgapp/gmg/internal/app/system/formutil"
	"github.com/gmgapp/gmg/internal/app/system/viewdata"
)

// newData is the view model for the "New meetup" form.
type newData struct {
	formutil.Base

	Name        string
	HostName    string
	WindowStart string
	WindowEnd   string
	Blocked     string
	Description string
	MinDate     string
}

type participantRow struct {
	Name         string
	IsHost       bool
	IsYou        bool
	PaintedDays  int
	HasPrefs     bool
	Transport    string
	Departure    string
	CategoryList string
}

// overviewData is the view model for the meeting overview.
type overviewData struct {
	viewdata.BaseVM

	ID          string
	Name        string
	HostName    string
	Description template.HTML
	WindowStart string
	WindowEnd   string
	Blocked     []string
	Status      string
	Planned     bool
	InviteCode  string
	InviteURL   string

	Participants []participantRow
	Painted      int
	WithPrefs    int
	Total        int

	Error string
}
