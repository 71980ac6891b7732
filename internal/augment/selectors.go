package augment

// Field names the course attributes read from a detail page. The names double
// as keys of the openSimilarSearch payload.
type Field string

const (
	FieldName           Field = "name"
	FieldCourseRating   Field = "courseRating"
	FieldSlopeRating    Field = "slopeRating"
	FieldRedTeeDistance Field = "redTeeDistance"
	FieldPrice          Field = "price"
)

// FieldSelector lists the selectors tried, in order, for one field.
type FieldSelector struct {
	Field      Field
	Label      string
	Candidates []string
}

// FieldSelectors is the extraction table, in panel display order.
var FieldSelectors = []FieldSelector{
	{FieldName, "コース名", []string{"h1", ".course-name", ".golf-course-name"}},
	{FieldCourseRating, "コースレート", []string{".course-rating", ".rating", "[data-rating]"}},
	{FieldSlopeRating, "スロープレート", []string{".slope-rating", ".slope", "[data-slope]"}},
	{FieldRedTeeDistance, "Redティー距離", []string{".red-tee", ".red-tee-distance", "[data-red-tee]"}},
	{FieldPrice, "料金", []string{".price", ".course-price", "[data-price]"}},
}

// ResultsContainerSelectors locate the results list on a search page, in order.
var ResultsContainerSelectors = []string{".search-results", ".course-list", ".results"}

// CourseItemSelectors match the individual course entries on a search page.
var CourseItemSelectors = []string{".course-item", ".golf-course-item", ".result-item"}
