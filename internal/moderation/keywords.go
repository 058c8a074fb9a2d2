package moderation

// baselineKeywords is the built-in banned-phrase list. It is always active
// and cannot be removed through platform settings; administrators can only
// add phrases on top of it. Phrases are matched as case-insensitive
// substrings, so keep them lowercase here.
var baselineKeywords = []string{
	"send nudes",
	"nudes",
	"onlyfans",
	"kill yourself",
	"kill you",
	"i will find you",
	"your address",
	"wire transfer",
	"western union",
	"gift card",
	"cashapp",
	"venmo me",
	"crypto wallet",
	"bitcoin investment",
	"sugar daddy",
	"sugar baby",
	"escort",
	"pay per meet",
}

// BaselineKeywords returns a copy of the built-in banned phrase list.
func BaselineKeywords() []string {
	out := make([]string, len(baselineKeywords))
	copy(out, baselineKeywords)
	return out
}
