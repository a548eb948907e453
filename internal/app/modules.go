package app

import (
	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/specialistvlad/mediagrid/modules/add_watermark"
	"github.com/specialistvlad/mediagrid/modules/adjust_volume"
	"github.com/specialistvlad/mediagrid/modules/audio_noise_reduction"
	"github.com/specialistvlad/mediagrid/modules/change_framerate"
	"github.com/specialistvlad/mediagrid/modules/change_speed"
	"github.com/specialistvlad/mediagrid/modules/compress_video"
	"github.com/specialistvlad/mediagrid/modules/concat_videos"
	"github.com/specialistvlad/mediagrid/modules/convert_audio"
	"github.com/specialistvlad/mediagrid/modules/convert_video_format"
	"github.com/specialistvlad/mediagrid/modules/env_var"
	"github.com/specialistvlad/mediagrid/modules/extract_audio"
	"github.com/specialistvlad/mediagrid/modules/media_info"
	"github.com/specialistvlad/mediagrid/modules/merge_audio"
	"github.com/specialistvlad/mediagrid/modules/print"
	"github.com/specialistvlad/mediagrid/modules/remove_audio"
	"github.com/specialistvlad/mediagrid/modules/replace_audio"
	"github.com/specialistvlad/mediagrid/modules/resize_video"
	"github.com/specialistvlad/mediagrid/modules/rotate_video"
	"github.com/specialistvlad/mediagrid/modules/trim_audio"
	"github.com/specialistvlad/mediagrid/modules/trim_video"
	"github.com/specialistvlad/mediagrid/modules/video_to_gif"
)

// coreModules is the definitive list of all modules that are compiled into
// the mediagrid binary. Media capabilities share one backend.
func coreModules(b backend.Backend) []registry.Module {
	return []registry.Module{
		&env_var.Module{},
		&print.Module{},
		&media_info.Module{Backend: b},
		&extract_audio.Module{Backend: b},
		&convert_audio.Module{Backend: b},
		&adjust_volume.Module{Backend: b},
		&merge_audio.Module{Backend: b},
		&trim_video.Module{Backend: b},
		&resize_video.Module{Backend: b},
		&rotate_video.Module{Backend: b},
		&concat_videos.Module{Backend: b},
		&trim_audio.Module{Backend: b},
		&audio_noise_reduction.Module{Backend: b},
		&replace_audio.Module{Backend: b},
		&remove_audio.Module{Backend: b},
		&change_speed.Module{Backend: b},
		&change_framerate.Module{Backend: b},
		&compress_video.Module{Backend: b},
		&convert_video_format.Module{Backend: b},
		&add_watermark.Module{Backend: b},
		&video_to_gif.Module{Backend: b},
	}
}
