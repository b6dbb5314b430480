package tajweed

// The built-in patterns are simplified approximations. Real tajweed depends on
// context the patterns cannot see, so they highlight likely occurrences only.
var defaultDefs = []RuleDef{
	// Noon sakinah and tanween
	{
		Key:         "izhar",
		Name:        "Izhar",
		Description: "Noon sakinah or tanween followed by a throat letter (ء ه ع ح غ خ) is pronounced clearly.",
		Style:       "sky",
		Pattern:     `[\u064B-\u064D\u0652]\s*[ءهعحغخ]`,
		Sample:      "مِنْ هَادٍ",
	},
	{
		Key:         "ikhfa",
		Name:        "Ikhfa",
		Description: "Noon sakinah or tanween followed by one of the fifteen ikhfa letters is pronounced concealed, with ghunnah.",
		Style:       "rose",
		Pattern:     `[\u064B-\u064D\u0652]\s*[تثجدذزرزشصضطظفقك]`,
		Sample:      "مِنْ شَرِّ",
	},
	{
		Key:         "iqlab",
		Name:        "Iqlab",
		Description: "Noon sakinah or tanween followed by ب turns into a meem sound with ghunnah.",
		Style:       "amber",
		Pattern:     `[\u064B-\u064D\u0652]\s*ب`,
		Sample:      "أَنْبِئْهُمْ",
	},
	{
		Key:         "idgham_ghunnah",
		Name:        "Idgham with Ghunnah",
		Description: "Noon sakinah or tanween followed by (ي ن م و) merges into the next letter with ghunnah.",
		Style:       "emerald",
		Pattern:     `[\u064B-\u064D\u0652]\s*[ينمو]`,
		Sample:      "مِنْ نُورٍ",
	},
	{
		Key:         "idgham_no_ghunnah",
		Name:        "Idgham without Ghunnah",
		Description: "Noon sakinah or tanween followed by (ل ر) merges into the next letter without ghunnah.",
		Style:       "green",
		Pattern:     `[\u064B-\u064D\u0652]\s*[لر]`,
		Sample:      "مِنْ رَبِّهِمْ",
	},

	// Meem sakinah
	{
		Key:         "ikhfa_shafawi",
		Name:        "Ikhfa Shafawi",
		Description: "Meem sakinah followed by ب is concealed on the lips.",
		Style:       "pink",
		Pattern:     `م\u0652\s*ب`,
		Sample:      "لَهُمْ بِنَبَإٍ",
	},
	{
		Key:         "idgham_shafawi",
		Name:        "Idgham Shafawi",
		Description: "Meem sakinah followed by م merges into it with ghunnah.",
		Style:       "fuchsia",
		Pattern:     `م\u0652\s*م`,
		Sample:      "كُنْتُمْ مُؤْمِنِينَ",
	},
	{
		Key:         "izhar_shafawi",
		Name:        "Izhar Shafawi",
		Description: "Meem sakinah followed by any letter other than ب or م is pronounced clearly.",
		Style:       "cyan",
		Pattern:     `م\u0652(?!\s*[بم])`,
		Sample:      "عَلَيْهِمْ قِتَالٌ",
	},

	// Lam of the definite article
	{
		Key:         "lam_shamsiyyah",
		Name:        "Lam Shamsiyyah",
		Description: "The lam of ال before a sun letter (ت ث د ذ ر ز س ش ص ض ط ظ ل ن) is silent.",
		Style:       "orange",
		Pattern:     `ال(?=\s*[تثدذرزسشصضطظلن])`,
		Sample:      "الشَّمْسُ",
	},
	{
		Key:         "lam_qamariyyah",
		Name:        "Lam Qamariyyah",
		Description: "The lam of ال before a moon letter (أ ب ج ح خ ع غ ف ق ك م ه و ي) is pronounced.",
		Style:       "teal",
		Pattern:     `ال(?=\s*[أابجحخعغفقكمهوي])`,
		Sample:      "الْقَمَرُ",
	},

	// Madd
	{
		Key:         "madd_muttasil",
		Name:        "Madd Muttasil",
		Description: "A madd letter followed by hamzah in the same word is prolonged.",
		Style:       "indigo",
		Pattern:     `[اوي][^\s]{0,1}ء`,
		Sample:      "سَوَاءً",
	},
	{
		Key:         "madd_munfasil",
		Name:        "Madd Munfasil",
		Description: "A madd letter ending a word with hamzah starting the next word is prolonged.",
		Style:       "indigo-dark",
		Pattern:     `[اوي]\s+ء`,
		Sample:      "فِي أَنْفُسِهِمْ",
	},
	{
		Key:         "madd_lin",
		Name:        "Madd Lin",
		Description: "Fatha followed by a sakin waw or ya (َوْ / َيْ) gives a soft prolongation.",
		Style:       "violet",
		Pattern:     `\u064E[وي]\u0652`,
		Sample:      "خَوْفٌ / بَيْتٍ",
	},

	// Qalqalah and ghunnah
	{
		Key:         "qalqalah",
		Name:        "Qalqalah",
		Description: "The letters ق ط ب ج د with sukun are pronounced with a slight echo.",
		Style:       "blue",
		Pattern:     `[قطبجد]\u0652`,
		Sample:      "يَقْطَعُونَ",
	},
	{
		Key:         "ghunnah",
		Name:        "Ghunnah",
		Description: "Meem or noon with shaddah is held with a nasal sound.",
		Style:       "purple",
		Pattern:     `[من]\u0651`,
		Sample:      "إِنَّ / ثُمَّ",
	},
}

var defaultTable = mustTable(defaultDefs)

// DefaultDefs returns a copy of the built-in rule definitions.
func DefaultDefs() []RuleDef {
	out := make([]RuleDef, len(defaultDefs))
	copy(out, defaultDefs)
	return out
}

// DefaultTable returns the built-in rule table.
func DefaultTable() *Table {
	return defaultTable
}

func mustTable(defs []RuleDef) *Table {
	t, err := NewTable(defs, DefaultMatchTimeout)
	if err != nil {
		panic("tajweed: invalid built-in rules: " + err.Error())
	}
	return t
}
