// Package sdkpb holds the wire types of the host SDK services (Parameter, Result,
// Log). The host does not ship a Go package for its .proto, so the message
// descriptors are assembled at init and messages travel as dynamicpb messages.
package sdkpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const protoFileName = "cafe/sdk.proto"

var (
	file protoreflect.FileDescriptor

	dataDesc        protoreflect.MessageDescriptor
	logBodyDesc     protoreflect.MessageDescriptor
	headerItemDesc  protoreflect.MessageDescriptor
	tableHeaderDesc protoreflect.MessageDescriptor
	responseDesc    protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("sdkpb: build %s: %v", protoFileName, err))
	}
	file = fd
	msgs := fd.Messages()
	dataDesc = msgs.ByName("Data")
	logBodyDesc = msgs.ByName("LogBody")
	headerItemDesc = msgs.ByName("TableHeaderItem")
	tableHeaderDesc = msgs.ByName("TableHeader")
	responseDesc = msgs.ByName("Response")
}

// FileDescriptor exposes the assembled descriptor, mainly for diagnostics.
func FileDescriptor() protoreflect.FileDescriptor { return file }

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(protoFileName),
		Package: proto.String("sdk"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("Data", scalar("jsonString", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			message("LogBody", scalar("log", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			message("TableHeaderItem",
				scalar("label", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("key", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("format", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("TableHeader", &descriptorpb.FieldDescriptorProto{
				Name:     proto.String("headers"),
				JsonName: proto.String("headers"),
				Number:   proto.Int32(1),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				TypeName: proto.String(".sdk.TableHeaderItem"),
			}),
			message("Response",
				scalar("code", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("message", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
		},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
	}
}
