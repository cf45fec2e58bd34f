package classify

import (
	"fmt"
	"sort"
	"strings"

	"chronos/internal/plan"
)

// Terrain is a geographic capability a location can offer.
type Terrain string

const (
	TerrainCoast  Terrain = "coast"
	TerrainSnow   Terrain = "snow"
	TerrainDesert Terrain = "desert"
)

// terrainRequirements maps activity keywords to the terrain they need.
var terrainRequirements = map[string]Terrain{
	"beach":         TerrainCoast,
	"surfing":       TerrainCoast,
	"surf":          TerrainCoast,
	"sailing":       TerrainCoast,
	"snorkeling":    TerrainCoast,
	"scuba":         TerrainCoast,
	"ski":           TerrainSnow,
	"skiing":        TerrainSnow,
	"snowboarding":  TerrainSnow,
	"snowboard":     TerrainSnow,
	"sledding":      TerrainSnow,
	"desert safari": TerrainDesert,
	"dune bashing":  TerrainDesert,
	"sandboarding":  TerrainDesert,
}

// place describes a known location in the gazetteer: what terrain it
// offers and where it is, so rejections can point somewhere nearby.
type place struct {
	terrain map[Terrain]bool
	region  string
}

// gazetteer covers locations the gate can rule on. Unknown locations
// always pass; the model performs its own reality check downstream.
var gazetteer = map[string]place{
	// India
	"mumbai":    {terrain: set(TerrainCoast), region: "india"},
	"goa":       {terrain: set(TerrainCoast), region: "india"},
	"chennai":   {terrain: set(TerrainCoast), region: "india"},
	"anand":     {terrain: set(), region: "india"},
	"delhi":     {terrain: set(), region: "india"},
	"new delhi": {terrain: set(), region: "india"},
	"bangalore": {terrain: set(), region: "india"},
	"bengaluru": {terrain: set(), region: "india"},
	"jaisalmer": {terrain: set(TerrainDesert), region: "india"},
	"manali":    {terrain: set(TerrainSnow), region: "india"},
	"gulmarg":   {terrain: set(TerrainSnow), region: "india"},

	// United States
	"miami":          {terrain: set(TerrainCoast), region: "us"},
	"san diego":      {terrain: set(TerrainCoast), region: "us"},
	"los angeles":    {terrain: set(TerrainCoast), region: "us"},
	"new york":       {terrain: set(TerrainCoast), region: "us"},
	"seattle":        {terrain: set(TerrainCoast), region: "us"},
	"denver":         {terrain: set(TerrainSnow), region: "us"},
	"aspen":          {terrain: set(TerrainSnow), region: "us"},
	"salt lake city": {terrain: set(TerrainSnow), region: "us"},
	"phoenix":        {terrain: set(TerrainDesert), region: "us"},
	"las vegas":      {terrain: set(TerrainDesert), region: "us"},
	"chicago":        {terrain: set(), region: "us"},
	"dallas":         {terrain: set(), region: "us"},
	"atlanta":        {terrain: set(), region: "us"},

	// Europe
	"london":    {terrain: set(), region: "europe"},
	"paris":     {terrain: set(), region: "europe"},
	"madrid":    {terrain: set(), region: "europe"},
	"rome":      {terrain: set(TerrainCoast), region: "europe"},
	"barcelona": {terrain: set(TerrainCoast), region: "europe"},
	"lisbon":    {terrain: set(TerrainCoast), region: "europe"},
	"zermatt":   {terrain: set(TerrainSnow), region: "europe"},
	"innsbruck": {terrain: set(TerrainSnow), region: "europe"},
	"chamonix":  {terrain: set(TerrainSnow), region: "europe"},

	// Elsewhere
	"dubai":     {terrain: set(TerrainCoast, TerrainDesert), region: "middle east"},
	"sydney":    {terrain: set(TerrainCoast), region: "australia"},
	"tokyo":     {terrain: set(TerrainCoast), region: "asia"},
	"singapore": {terrain: set(TerrainCoast), region: "asia"},
	"toronto":   {terrain: set(), region: "canada"},
	"vancouver": {terrain: set(TerrainCoast, TerrainSnow), region: "canada"},
}

var terrainNames = map[Terrain]string{
	TerrainCoast:  "coastline",
	TerrainSnow:   "ski terrain",
	TerrainDesert: "desert terrain",
}

func set(ts ...Terrain) map[Terrain]bool {
	m := make(map[Terrain]bool, len(ts))
	for _, t := range ts {
		m[t] = true
	}
	return m
}

// CheckFeasibility is the gate in front of the whole pipeline: it
// rejects activity/location pairs that are physically impossible, so
// no forecast is fetched and no model is called for them. It only
// rejects when both the activity's terrain requirement and the
// location are positively known.
func CheckFeasibility(request, location string) plan.TaskFeasibility {
	lowReq := strings.ToLower(request)

	// Longest keyword wins so "skiing" is reported over "ski".
	keywords := make([]string, 0, len(terrainRequirements))
	for kw := range terrainRequirements {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	var need Terrain
	var activity string
	for _, kw := range keywords {
		if strings.Contains(lowReq, kw) {
			need, activity = terrainRequirements[kw], kw
			break
		}
	}
	if activity == "" {
		return plan.TaskFeasibility{
			Feasible: true,
			Reason:   "No terrain-specific activity detected; no physical constraint to check.",
		}
	}

	loc, known := lookupPlace(location)
	if !known {
		return plan.TaskFeasibility{
			Feasible: true,
			Reason:   fmt.Sprintf("Location %q is not in the known-location index; assuming %s is possible there.", location, activity),
		}
	}

	if loc.terrain[need] {
		return plan.TaskFeasibility{
			Feasible: true,
			Reason:   fmt.Sprintf("%s offers %s, so %s is possible.", location, terrainNames[need], activity),
		}
	}

	f := plan.TaskFeasibility{
		Feasible: false,
		Reason:   fmt.Sprintf("%s has no %s, so %s is not possible there.", location, terrainNames[need], activity),
	}
	if alt := nearestWith(need, loc.region); alt != "" {
		f.Suggestion = fmt.Sprintf("Consider %s instead for %s.", titleCase(alt), activity)
	}
	return f
}

// lookupPlace matches the city component of a "City, State, Country"
// location string against the gazetteer.
func lookupPlace(location string) (place, bool) {
	for _, part := range strings.Split(strings.ToLower(location), ",") {
		if p, ok := gazetteer[strings.TrimSpace(part)]; ok {
			return p, true
		}
	}
	return place{}, false
}

// nearestWith picks a known location offering the required terrain,
// preferring the same region. Names are scanned in sorted order so the
// suggestion is deterministic.
func nearestWith(need Terrain, region string) string {
	names := make([]string, 0, len(gazetteer))
	for name := range gazetteer {
		names = append(names, name)
	}
	sort.Strings(names)

	var fallback string
	for _, name := range names {
		p := gazetteer[name]
		if !p.terrain[need] {
			continue
		}
		if p.region == region {
			return name
		}
		if fallback == "" {
			fallback = name
		}
	}
	return fallback
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
