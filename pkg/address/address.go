// Package address holds the fixed location data offered by the sign-up forms.
package address

import "slices"

// Country is the only country the service operates in.
const Country = "United States"

var states = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California",
	"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland",
	"Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri",
	"Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

// States returns the 50 US state names in alphabetical order.
// The slice is a copy; callers may modify it.
func States() []string {
	return slices.Clone(states)
}

// IsState reports whether name is one of States, compared exactly.
func IsState(name string) bool {
	return slices.Contains(states, name)
}
