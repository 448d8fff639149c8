package services

import (
	"strconv"
	"strings"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/app/models/dto"
)

// courseRequest is one query item after parsing: the primary listing, its
// valid cross-listings, the department-priority order for instructor
// disambiguation and the instructor last names in input order.
type courseRequest struct {
	raw         string
	primary     models.CourseKey
	primaryOK   bool
	alternates  []models.CourseKey
	depts       []string
	instructors []string
}

// candidateKeys returns the primary listing followed by its alternates, the
// order fallback walks them in.
func (r courseRequest) candidateKeys() []models.CourseKey {
	if !r.primaryOK {
		return nil
	}
	keys := make([]models.CourseKey, 0, 1+len(r.alternates))
	keys = append(keys, r.primary)
	keys = append(keys, r.alternates...)
	return keys
}

// parseCourseKey parses the "DEPT NUMBER" wire form. Anything that is not
// exactly two whitespace-separated tokens with a numeric second token is
// rejected.
func parseCourseKey(raw string) (models.CourseKey, bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return models.CourseKey{}, false
	}

	number, err := strconv.Atoi(fields[1])
	if err != nil {
		return models.CourseKey{}, false
	}

	return models.CourseKey{Dept: fields[0], Number: number}, true
}

// splitInstructorNames splits a comma-separated instructor field into
// individual names, dropping empty segments.
func splitInstructorNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// lastNameOf extracts the last whitespace-separated token of a display name,
// which is the granularity professor identities are stored at.
func lastNameOf(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// resolveRequest parses one query item into its course keys, department
// priority list and instructor last names. A malformed primary marks the
// whole item unresolvable; malformed alternates are dropped individually.
func resolveRequest(item dto.FeedbackQueryItem) courseRequest {
	request := courseRequest{raw: item.CourseID}

	request.primary, request.primaryOK = parseCourseKey(item.CourseID)
	if !request.primaryOK {
		return request
	}

	seenDepts := map[string]bool{request.primary.Dept: true}
	request.depts = append(request.depts, request.primary.Dept)

	for _, listing := range item.OtherListings {
		key, ok := parseCourseKey(listing)
		if !ok || key == request.primary {
			continue
		}
		request.alternates = append(request.alternates, key)
		if !seenDepts[key.Dept] {
			seenDepts[key.Dept] = true
			request.depts = append(request.depts, key.Dept)
		}
	}

	for _, name := range splitInstructorNames(item.Instructor) {
		if last := lastNameOf(name); last != "" {
			request.instructors = append(request.instructors, last)
		}
	}

	return request
}
