package awin

import "strings"

// Tracking builds outbound click-tracking URLs for a publisher. It is a pure
// value: both fields are fixed at startup and every URL is derived only from
// its arguments.
type Tracking struct {
	PublisherID       string
	TrackingCodeParam string
}

// ClickURL returns the awclick.php URL for an advertiser. When trackingCode
// is empty no tracking parameter is appended at all.
func (t Tracking) ClickURL(advertiserID, trackingCode string) string {
	url := "https://www.awin1.com/awclick.php" +
		"?id=" + t.PublisherID +
		"&mid=" + advertiserID
	if trackingCode != "" {
		url += "&" + strings.ToLower(t.TrackingCodeParam) + "=" + trackingCode
	}
	return url
}

// ProductURL returns the pclick.php URL for one product. Unlike ClickURL,
// the tracking parameter is always appended, with an empty value when no
// tracking code is given; downstream consumers rely on that exact shape, so
// the asymmetry is preserved as an external compatibility requirement.
func (t Tracking) ProductURL(advertiserID, productID, trackingCode string) string {
	return "https://www.awin1.com/pclick.php" +
		"?p=" + productID +
		"&a=" + t.PublisherID +
		"&m=" + advertiserID +
		"&" + strings.ToLower(t.TrackingCodeParam) + "=" + trackingCode
}
