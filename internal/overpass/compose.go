// Package overpass composes tag queries for the Overpass API and correlates
// its JSON responses into ids and nodes.
//
// See https://wiki.openstreetmap.org/wiki/Overpass_API/Overpass_QL
package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

const (
	regionsHeader = "[out:json][timeout:180];"
	regionsFooter = ";out tags;"

	// admin_level=4 is usually a state/province: big enough to be known by
	// name, smaller than a country.
	regionTags = "[boundary=administrative][admin_level=4]"
)

// featureQuery builds the node selector of one feature category. ok=false
// means a required property is missing and the category is skipped.
type featureQuery struct {
	feature model.Feature
	suffix  string
	nodes   func(bbox string, props map[string]string) (sel string, ok bool)
}

// fixed emission order: airports, peaks, sea beaches, salt lakes
var featureQueries = []featureQuery{
	{model.FeatureAirports, "A", airportNodes},
	{model.FeaturePeaks, "P", peakNodes},
	{model.FeatureSeaBeaches, "S", seaBeachNodes},
	{model.FeatureSaltLakes, "L", saltLakeNodes},
}

// Selectors producing ways or relations recurse down into a named set so the
// default set stays clean.
func airportNodes(bbox string, _ map[string]string) (string, bool) {
	return "(" +
		fmt.Sprintf(`nwr["aeroway"="aerodrome"]["aerodrome:type"="international"](%s);`, bbox) +
		fmt.Sprintf(`nwr["aerodrome"="international"](%s);`, bbox) +
		") -> .outA;" +
		".outA > -> .outA;" +
		"node.outA", true
}

func peakNodes(bbox string, props map[string]string) (string, bool) {
	raw, ok := props[model.PropMinPeakHeight]
	if !ok {
		return "", false
	}
	height, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf(`node[natural=peak][name](%s)(if: is_number(t["ele"]) && number(t["ele"]) > %d)`, bbox, height), true
}

func seaBeachNodes(bbox string, _ map[string]string) (string, bool) {
	return fmt.Sprintf("way[natural=coastline](%s) -> .coastlines;", bbox) +
		"node(around.coastlines:100)[natural=beach]", true
}

// Lakes can span several regions or countries, so only their nodes inside
// the box are kept.
func saltLakeNodes(bbox string, _ map[string]string) (string, bool) {
	return fmt.Sprintf("wr[natural=water][water=lake][salt=yes][name](%s) -> .outL;", bbox) +
		".outL > -> .outL;" +
		fmt.Sprintf("node.outL(%s)", bbox), true
}

func relationsByNodes(nodes, suffix string) string {
	return fmt.Sprintf("%s -> .nodes%s;", nodes, suffix) +
		fmt.Sprintf(".nodes%s is_in -> .areas%s;", suffix, suffix) +
		fmt.Sprintf("rel(pivot.areas%s)%s -> .rel%s;", suffix, regionTags, suffix)
}

// ComposeRegions builds the query for admin_level=4 regions inside bbox that
// contain every enabled feature. It returns "" when no feature produces a
// sub-query; callers must not send anything in that case.
func ComposeRegions(bbox model.BBox, prefs model.RegionPreferences) string {
	bboxStr := bbox.OverpassString()

	var body strings.Builder
	var labels []string
	for _, fq := range featureQueries {
		if !prefs.Features.Has(fq.feature) {
			continue
		}
		nodes, ok := fq.nodes(bboxStr, prefs.Properties)
		if !ok {
			continue
		}
		body.WriteString(relationsByNodes(nodes, fq.suffix))
		labels = append(labels, ".rel"+fq.suffix)
	}
	if len(labels) == 0 {
		return ""
	}

	// intersection of every produced set
	return regionsHeader + body.String() + "rel" + strings.Join(labels, "") + regionsFooter
}

var nameEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ComposeCityByName selects administrative relations with exactly this name.
func ComposeCityByName(name string) string {
	return "[out:json];" +
		fmt.Sprintf(`rel["name"="%s"]["boundary"="administrative"];`, nameEscaper.Replace(name)) +
		"out ids;"
}

// ComposeCityByPosition selects relations whose areas contain the point.
func ComposeCityByPosition(lat, lon float64) string {
	return "[out:json];" +
		fmt.Sprintf("is_in(%s,%s) -> .areas;", formatFloat(lat), formatFloat(lon)) +
		"(" +
		`rel(pivot.areas)["boundary"="administrative"];` +
		`rel(pivot.areas)["place"~"^(city|town|state)$"];` +
		");" +
		"out ids;"
}

// ComposeDetail selects tourism-tagged nodes inside the relation's area.
func ComposeDetail(relationID model.EntityID) string {
	return "[out:json][timeout:60];" +
		fmt.Sprintf("rel(%d);", relationID) +
		"map_to_area -> .cityArea;" +
		`node(area.cityArea)["tourism"];` +
		"out body;"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
