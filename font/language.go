package font

import (
	"unicode"

	"github.com/go-text/typesetting/language"
)

// sampleText holds a short pangram or sentence per language. A face
// supports a language when it covers every letter of the sample.
var sampleText = map[language.Language]string{
	"ar":    "\u0646\u0635 \u062d\u0643\u064a\u0645 \u0644\u0647 \u0633\u0631 \u0642\u0627\u0637\u0639 \u0648\u0630\u0648 \u0634\u0623\u0646 \u0639\u0638\u064a\u0645 \u0645\u0643\u062a\u0648\u0628 \u0639\u0644\u0649 \u062b\u0648\u0628 \u0623\u062e\u0636\u0631 \u0648\u0645\u063a\u0644\u0641 \u0628\u062c\u0644\u062f \u0623\u0632\u0631\u0642",
	"bg":    "\u041f\u043e\u0434 \u044e\u0436\u043d\u043e \u0434\u044a\u0440\u0432\u043e, \u0446\u044a\u0444\u0442\u044f\u0449\u043e \u0432 \u0441\u0438\u043d\u044c\u043e, \u0431\u044f\u0433\u0430\u0448\u0435 \u043c\u0430\u043b\u043a\u043e \u043f\u0443\u0445\u043a\u0430\u0432\u043e \u0437\u0430\u0439\u0447\u0435",
	"bn":    "\u0986\u09ae\u09bf \u0995\u09be\u0981\u099a \u0996\u09c7\u09a4\u09c7 \u09aa\u09be\u09b0\u09bf, \u09a4\u09be\u09a4\u09c7 \u0986\u09ae\u09be\u09b0 \u0995\u09cb\u09a8\u09cb \u0995\u09cd\u09b7\u09a4\u09bf \u09b9\u09af\u09bc \u09a8\u09be",
	"de":    "Zw\u00f6lf Boxk\u00e4mpfer jagen Viktor quer \u00fcber den gro\u00dfen Sylter Deich",
	"el":    "\u0398\u03ad\u03bb\u03b5\u03b9 \u03b1\u03c1\u03b5\u03c4\u03ae \u03ba\u03b1\u03b9 \u03c4\u03cc\u03bb\u03bc\u03b7 \u03b7 \u03b5\u03bb\u03b5\u03c5\u03b8\u03b5\u03c1\u03af\u03b1",
	"en":    "The quick brown fox jumps over the lazy dog",
	"es":    "Jovencillo emponzo\u00f1ado de whisky: \u00a1qu\u00e9 figurota exhibe!",
	"fa":    "\u06a9\u0647 \u0639\u0634\u0642 \u0622\u0633\u0627\u0646 \u0646\u0645\u0648\u062f \u0627\u0648\u0651\u0644\u060c \u0648\u0644\u06cc \u0627\u0641\u062a\u0627\u062f \u0645\u0634\u06a9\u0644\u200c\u0647\u0627",
	"fr":    "Voix ambigu\u00eb d'un c\u0153ur qui, au z\u00e9phyr, pr\u00e9f\u00e8re les jattes de kiwis",
	"he":    "\u05d3\u05d2 \u05e1\u05e7\u05e8\u05df \u05e9\u05d8 \u05dc\u05d5 \u05d1\u05d9\u05dd \u05d6\u05da \u05d0\u05da \u05dc\u05e4\u05ea\u05e2 \u05e4\u05d2\u05e9 \u05d7\u05d1\u05d5\u05e8\u05d4 \u05e0\u05d7\u05de\u05d3\u05d4 \u05e9\u05e6\u05e6\u05d4 \u05db\u05da",
	"hi":    "\u0928\u0939\u0940\u0902 \u0928\u091c\u0930 \u0915\u093f\u0938\u0940 \u0915\u0940 \u092c\u0941\u0930\u0940 \u0928\u0939\u0940\u0902 \u0915\u093f\u0938\u0940 \u0915\u093e \u092e\u0941\u0901\u0939 \u0915\u093e\u0932\u093e",
	"hy":    "\u053f\u0580\u0576\u0561\u0574 \u0561\u057a\u0561\u056f\u056b \u0578\u0582\u057f\u0565\u056c \u0587 \u056b\u0576\u056e\u056b \u0561\u0576\u0570\u0561\u0576\u0563\u056b\u057d\u057f \u0579\u0568\u0576\u0565\u0580",
	"it":    "Ma la volpe, col suo balzo, ha raggiunto il quieto Fido",
	"ja":    "\u3044\u308d\u306f\u306b\u307b\u3078\u3068 \u3061\u308a\u306c\u308b\u3092 \u8272\u306f\u5302\u3078\u3069 \u6563\u308a\u306c\u308b\u3092",
	"ka":    "\u10db\u10d8\u10dc\u10d0\u10e1 \u10d5\u10ed\u10d0\u10db \u10d3\u10d0 \u10d0\u10e0\u10d0 \u10db\u10e2\u10d9\u10d8\u10d5\u10d0",
	"ko":    "\ub2e4\ub78c\uc950 \ud5cc \uccc7\ubc14\ud034\uc5d0 \ud0c0\uace0\ud30c",
	"pl":    "Pchn\u0105\u0107 w t\u0119 \u0142\u00f3d\u017a je\u017ca lub o\u015bm skrzy\u0144 fig",
	"pt":    "Vejam a bruxa da raposa Salta-Pocinhas e o c\u00e3o feliz que dorme regalado",
	"ru":    "\u0412 \u0447\u0430\u0449\u0430\u0445 \u044e\u0433\u0430 \u0436\u0438\u043b \u0431\u044b \u0446\u0438\u0442\u0440\u0443\u0441? \u0414\u0430, \u043d\u043e \u0444\u0430\u043b\u044c\u0448\u0438\u0432\u044b\u0439 \u044d\u043a\u0437\u0435\u043c\u043f\u043b\u044f\u0440!",
	"ta":    "\u0ba8\u0bbe\u0ba9\u0bcd \u0b95\u0ba3\u0bcd\u0ba3\u0bbe\u0b9f\u0bbf \u0b9a\u0bbe\u0baa\u0bcd\u0baa\u0bbf\u0b9f\u0bc1\u0bb5\u0bc7\u0ba9\u0bcd",
	"th":    "\u0e40\u0e1b\u0e47\u0e19\u0e21\u0e19\u0e38\u0e29\u0e22\u0e4c\u0e2a\u0e38\u0e14\u0e1b\u0e23\u0e30\u0e40\u0e2a\u0e23\u0e34\u0e10\u0e40\u0e25\u0e34\u0e28\u0e04\u0e38\u0e13\u0e04\u0e48\u0e32",
	"tr":    "Pijamal\u0131 hasta ya\u011f\u0131z \u015fof\u00f6re \u00e7abucak g\u00fcvendi",
	"uk":    "\u0427\u0443\u0454\u0448 \u0457\u0445, \u0434\u043e\u0446\u044e, \u0433\u0430? \u041a\u0443\u043c\u0435\u0434\u043d\u0430 \u0436 \u0442\u0438, \u043f\u0440\u043e\u0449\u0430\u0439\u0441\u044f \u0431\u0435\u0437 \u0491\u043e\u043b\u044c\u0444\u0456\u0432!",
	"vi":    "Con s\u00f3i n\u00e2u nh\u1ea3y qua con ch\u00f3 l\u01b0\u1eddi",
	"zh-cn": "\u6211\u80fd\u541e\u4e0b\u73bb\u7483\u800c\u4e0d\u4f24\u8eab\u4f53",
	"zh-tw": "\u6211\u80fd\u541e\u4e0b\u73bb\u7483\u800c\u4e0d\u50b7\u8eab\u9ad4",
}

// SampleString returns a short text in lang, falling back to the primary
// subtag and then to English.
func SampleString(lang language.Language) string {
	if s, ok := sampleText[lang]; ok {
		return s
	}
	if s, ok := sampleText[lang.Primary()]; ok {
		return s
	}
	return sampleText["en"]
}

// supportsLanguage reports whether hasChar covers the letters of the sample
// text for lang. Languages without a sample are assumed supported.
func supportsLanguage(lang language.Language, hasChar func(rune) bool) bool {
	if lang == "" {
		return true
	}
	s, ok := sampleText[lang]
	if !ok {
		if s, ok = sampleText[lang.Primary()]; !ok {
			return true
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) && !hasChar(r) {
			return false
		}
	}
	return true
}
