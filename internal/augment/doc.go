// Package augment enhances pages of the GORA golf directory.
//
// On a course detail page it extracts the course's attributes and adds an
// info panel with a "search similar" action. On a search results page it adds
// an advanced filter form and a sort selector in front of the results.
//
// The filter and sort actions are deliberately inert: ApplyFilters shows every
// course and SortResults keeps the page order. The page exposes no per-course
// attributes to compare, so nothing is hidden or reordered.
package augment
