// Package publisher counts headlines per publisher and per email-derived
// organization.
package publisher

import (
	"sort"
	"strings"

	"github.com/selivandex/newslens/pkg/models"
)

// TopPublishers counts headlines per publisher, most active first.
// Rows without a publisher are ignored. Equal counts keep the order in which
// publishers first appear. topN <= 0 returns every publisher.
func TopPublishers(records []models.NewsRecord, topN int) []models.PublisherCount {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Publisher)
	}

	ranked := rank(names)
	out := make([]models.PublisherCount, len(ranked))
	for i, e := range ranked {
		out[i] = models.PublisherCount{Publisher: e.key, Count: e.count}
	}
	return head(out, topN)
}

// ExtractOrganization returns the domain name of an email-like publisher
// without its suffix ("user@domain.tld" -> "domain"). Strings without '@'
// are returned unchanged.
func ExtractOrganization(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	// a second '@' ends the domain
	domain, _, _ = strings.Cut(domain, "@")
	organization, _, _ := strings.Cut(domain, ".")
	return organization
}

// IsEmail reports whether a publisher identifier looks like an email address
func IsEmail(publisher string) bool {
	return strings.Contains(publisher, "@")
}

// AddOrganization returns a copy of records with Organization set for every
// email-like publisher. Other records keep an empty organization.
func AddOrganization(records []models.NewsRecord) []models.NewsRecord {
	out := make([]models.NewsRecord, len(records))
	copy(out, records)

	for i := range out {
		if IsEmail(out[i].Publisher) {
			out[i].Organization = ExtractOrganization(out[i].Publisher)
		}
	}
	return out
}

// OrganizationCounts counts headlines per organization, most frequent first.
// Organizations are derived from the publisher when a record has none;
// records whose publisher is not an email are left out.
func OrganizationCounts(records []models.NewsRecord) []models.OrganizationCount {
	orgs := make([]string, 0, len(records))
	for _, r := range records {
		org := r.Organization
		if org == "" && IsEmail(r.Publisher) {
			org = ExtractOrganization(r.Publisher)
		}
		orgs = append(orgs, org)
	}

	ranked := rank(orgs)
	out := make([]models.OrganizationCount, len(ranked))
	for i, e := range ranked {
		out[i] = models.OrganizationCount{Organization: e.key, Count: e.count}
	}
	return out
}

type entry struct {
	key   string
	count int
}

// rank counts non-empty keys and orders them by count desc, then first seen
func rank(keys []string) []entry {
	index := make(map[string]int)
	var entries []entry

	for _, k := range keys {
		if k == "" {
			continue
		}
		if pos, ok := index[k]; ok {
			entries[pos].count++
			continue
		}
		index[k] = len(entries)
		entries = append(entries, entry{key: k, count: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	return entries
}

func head[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
