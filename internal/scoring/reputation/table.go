// internal/scoring/reputation/table.go
package reputation

func rank(v int) *int { return &v }

// DefaultEntries is the built-in table. IISER campuses precede IISc because
// "indian institute of science education and research" contains the IISc name.
func DefaultEntries() []Entry {
	return []Entry{
		{Key: "iiser pune", Aliases: []string{"indian institute of science education and research pune", "iiser, pune"}, NIRF: rank(24)},
		{Key: "iiser kolkata", Aliases: []string{"indian institute of science education and research kolkata"}, NIRF: rank(49)},
		{Key: "iisc", Aliases: []string{"indian institute of science"}, NIRF: rank(2), QS: rank(211)},
		{Key: "iit madras", Aliases: []string{"indian institute of technology madras", "iit chennai"}, NIRF: rank(1), QS: rank(227)},
		{Key: "iit delhi", Aliases: []string{"indian institute of technology delhi"}, NIRF: rank(2), QS: rank(150)},
		{Key: "iit bombay", Aliases: []string{"indian institute of technology bombay", "iit mumbai"}, NIRF: rank(3), QS: rank(118)},
		{Key: "iit kanpur", Aliases: []string{"indian institute of technology kanpur"}, NIRF: rank(4), QS: rank(263)},
		{Key: "iit kharagpur", Aliases: []string{"indian institute of technology kharagpur"}, NIRF: rank(5), QS: rank(222)},
		{Key: "iit roorkee", Aliases: []string{"indian institute of technology roorkee"}, NIRF: rank(6), QS: rank(335)},
		{Key: "iit guwahati", Aliases: []string{"indian institute of technology guwahati"}, NIRF: rank(7), QS: rank(344)},
		{Key: "nit trichy", Aliases: []string{"national institute of technology tiruchirappalli", "nit tiruchirappalli"}, NIRF: rank(9)},
		{Key: "nit surathkal", Aliases: []string{"national institute of technology karnataka"}, NIRF: rank(17)},
		{Key: "jawaharlal nehru university", Aliases: []string{"jnu"}, NIRF: rank(10), QS: rank(580)},
		{Key: "banaras hindu university", Aliases: []string{"iit (bhu)", "bhu varanasi"}, NIRF: rank(11)},
		{Key: "jadavpur university", NIRF: rank(12), QS: rank(711)},
		{Key: "university of delhi", Aliases: []string{"delhi university"}, NIRF: rank(13), QS: rank(328)},
		{Key: "anna university", NIRF: rank(20), QS: rank(383)},
		{Key: "bits pilani", Aliases: []string{"birla institute of technology and science"}, NIRF: rank(25), QS: rank(668)},
		{Key: "university of hyderabad", NIRF: rank(21), QS: rank(721)},
		{Key: "amity university", QS: rank(1001)},
		{Key: "massachusetts institute of technology", QS: rank(1)},
		{Key: "university of oxford", Aliases: []string{"oxford university"}, QS: rank(3)},
		{Key: "stanford university", QS: rank(6)},
		{Key: "national university of singapore", QS: rank(8)},
	}
}

// Default returns a Lookup over DefaultEntries.
func Default() *Lookup {
	return New(DefaultEntries())
}
