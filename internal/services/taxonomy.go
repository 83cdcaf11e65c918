package services

import (
	"log"

	"golang.org/x/exp/slices"

	"hpi-dashboard/internal/models"
)

// AllRegionsGroup is the catch-all group offering every region in the data
const AllRegionsGroup = "All Regions"

// regionGroups is static reference data mapping a parent area to the local
// authority areas it covers. It groups the selection UI only; membership is
// always intersected with the regions actually present in the dataset.
var regionGroups = map[string][]string{
	"North East": {
		"County Durham", "Darlington", "Gateshead", "Hartlepool",
		"Middlesbrough", "Newcastle upon Tyne", "North Tyneside",
		"Northumberland", "Redcar and Cleveland", "South Tyneside",
		"Stockton-on-Tees", "Sunderland",
	},
	"North West": {
		"Blackburn with Darwen", "Blackpool", "Cheshire East",
		"Cheshire West and Chester", "Cumbria", "Greater Manchester",
		"Halton", "Lancashire", "Merseyside", "Warrington",
	},
	"Yorkshire and The Humber": {
		"East Riding of Yorkshire", "Kingston upon Hull",
		"North East Lincolnshire", "North Lincolnshire", "North Yorkshire",
		"South Yorkshire", "West Yorkshire", "York",
	},
	"East Midlands": {
		"Derby", "Derbyshire", "Leicester", "Leicestershire",
		"Lincolnshire", "Northamptonshire", "Nottingham",
		"Nottinghamshire", "Rutland",
	},
	"West Midlands": {
		"Herefordshire", "Shropshire", "Staffordshire", "Stoke-on-Trent",
		"Telford and Wrekin", "Warwickshire", "West Midlands",
		"Worcestershire",
	},
	"East of England": {
		"Bedford", "Cambridgeshire", "Central Bedfordshire", "Essex",
		"Hertfordshire", "Luton", "Norfolk", "Peterborough",
		"Southend-on-Sea", "Suffolk", "Thurrock",
	},
	"London": {
		"Inner London", "Outer London", "City of London",
		"City of Westminster", "Camden", "Croydon", "Greenwich",
		"Hackney", "Islington", "Lambeth", "Tower Hamlets", "Wandsworth",
	},
	"South East": {
		"Bracknell Forest", "Brighton and Hove", "Buckinghamshire",
		"East Sussex", "Hampshire", "Isle of Wight", "Kent", "Medway",
		"Milton Keynes", "Oxfordshire", "Portsmouth", "Reading", "Slough",
		"Southampton", "Surrey", "West Berkshire",
		"Windsor and Maidenhead", "West Sussex", "Wokingham",
	},
	"South West": {
		"Bath and North East Somerset", "Bournemouth Christchurch and Poole",
		"Bristol", "Cornwall", "Devon", "Dorset", "Gloucestershire",
		"Plymouth", "Somerset", "Swindon", "Torbay", "Wiltshire",
	},
	"Wales": {
		"Blaenau Gwent", "Bridgend", "Caerphilly", "Cardiff",
		"Carmarthenshire", "Ceredigion", "Conwy", "Denbighshire",
		"Flintshire", "Gwynedd", "Merthyr Tydfil", "Monmouthshire",
		"Neath Port Talbot", "Newport", "Pembrokeshire", "Powys",
		"Rhondda Cynon Taf", "Swansea", "Torfaen", "Vale of Glamorgan",
		"Wrexham",
	},
	"Scotland": {
		"Aberdeen City", "Aberdeenshire", "City of Edinburgh",
		"Dumfries and Galloway", "Dundee City", "Fife", "Glasgow City",
		"Highland", "Perth and Kinross", "Scottish Borders", "Stirling",
	},
	"Northern Ireland": {
		"Antrim and Newtownabbey", "Ards and North Down",
		"Armagh City Banbridge and Craigavon", "Belfast",
		"Causeway Coast and Glens", "Derry City and Strabane",
		"Fermanagh and Omagh", "Lisburn and Castlereagh",
		"Mid and East Antrim", "Mid Ulster", "Newry Mourne and Down",
	},
}

// GroupNames returns the selectable parent group names, with the catch-all
// group first and the rest alphabetical
func GroupNames() []string {
	names := make([]string, 0, len(regionGroups)+1)
	for name := range regionGroups {
		names = append(names, name)
	}
	slices.Sort(names)
	return append([]string{AllRegionsGroup}, names...)
}

// validateTaxonomy checks the static group members against the distinct
// region set of a freshly loaded dataset. Mismatches are logged, never
// treated as errors; absent members are simply not selectable.
func validateTaxonomy(dataset *models.Dataset) {
	for group, members := range regionGroups {
		present := 0
		for _, member := range members {
			if slices.Contains(dataset.Regions, member) {
				present++
			}
		}
		if present < len(members) {
			log.Printf("Taxonomy: group %q has %d of %d members in dataset", group, present, len(members))
		}
	}
}
