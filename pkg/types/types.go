package types

// LayerKind tags the variant of a layer.
type LayerKind string

const (
	LayerKindVideo LayerKind = "video"
	LayerKindText  LayerKind = "text"
)

// FontFamily is one of the font families a text layer may use.
type FontFamily string

const (
	FontArial         FontFamily = "Arial"
	FontHelvetica     FontFamily = "Helvetica"
	FontTimesNewRoman FontFamily = "Times New Roman"
	FontGeorgia       FontFamily = "Georgia"
	FontVerdana       FontFamily = "Verdana"
	FontCourierNew    FontFamily = "Courier New"
	FontImpact        FontFamily = "Impact"
)

const DefaultFontFamily = FontArial

// FontFamilies lists the supported families in display order.
var FontFamilies = []FontFamily{
	FontArial,
	FontHelvetica,
	FontTimesNewRoman,
	FontGeorgia,
	FontVerdana,
	FontCourierNew,
	FontImpact,
}

// ParseFontFamily returns the matching family, or the default family when the
// name is not one of FontFamilies.
func ParseFontFamily(name string) FontFamily {
	for _, f := range FontFamilies {
		if string(f) == name {
			return f
		}
	}
	return DefaultFontFamily
}

// Handle names one of the eight resize anchors of a video layer.
type Handle string

const (
	HandleNone Handle = ""
	HandleNW   Handle = "nw"
	HandleN    Handle = "n"
	HandleNE   Handle = "ne"
	HandleE    Handle = "e"
	HandleSE   Handle = "se"
	HandleS    Handle = "s"
	HandleSW   Handle = "sw"
	HandleW    Handle = "w"
)

// Handles lists the resize anchors in hit-test order: corners first so they
// win over the edge squares they may overlap on small layers.
var Handles = []Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

type TargetPlatform string

const (
	TargetPlatformTikTok        TargetPlatform = "tiktok"
	TargetPlatformInstagramReel TargetPlatform = "instagram-reel"
	TargetPlatformReddit        TargetPlatform = "reddit"
	TargetPlatformXTwitter      TargetPlatform = "x-twitter"
	TargetPlatformYouTube       TargetPlatform = "youtube"
	TargetPlatformYouTubeShorts TargetPlatform = "youtube-shorts"
)
